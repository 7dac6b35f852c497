package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/cloudflare/tableflip"
	"github.com/pires/go-proxyproto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/realDragonium/limbo/config"
)

func main() {
	var (
		cfgPath = flag.String("config", "/etc/limbo/limbo.json", "`Path` to the config file")
		pidFile = flag.String("pid-file", "", "`Path` to pid file, overrides the config")
	)
	flag.Parse()
	log.SetPrefix(fmt.Sprintf("%d ", os.Getpid()))
	log.Println("Starting up")

	cfg, err := config.ReadLimboConfig(*cfgPath)
	if errors.Is(err, config.ErrNoConfigFile) {
		log.Printf("No config found, writing default config to %s", *cfgPath)
		if err := config.WriteDefaultConfig(*cfgPath); err != nil {
			log.Fatalf("Writing default config: %v", err)
		}
		cfg, err = config.ReadLimboConfig(*cfgPath)
	}
	if err != nil {
		log.Fatalf("Read config file at '%s' - error: %v", *cfgPath, err)
	}
	if *pidFile != "" {
		cfg.PidFile = *pidFile
	}
	if errs := config.VerifyConfig(cfg); len(errs) != 0 {
		for _, err := range errs {
			log.Println(err)
		}
		log.Fatalf("Config at '%s' contains %d error(s)", *cfgPath, len(errs))
	}

	proxy, err := setup(cfg)
	if err != nil {
		log.Fatalf("Setting up: %v", err)
	}

	if cfg.UsePrometheus {
		log.Println("Starting prometheus...")
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		promeServer := &http.Server{Addr: cfg.PrometheusBind, Handler: mux}
		go func() {
			log.Println(promeServer.ListenAndServe())
		}()
	}

	notUseHotSwap := !cfg.EnableHotSwap || runtime.GOOS == "windows"
	if notUseHotSwap {
		ln, err := net.Listen("tcp", cfg.ListenTo)
		if err != nil {
			log.Fatalln("Can't listen:", err)
		}
		proxy.Serve(acceptProxyProtocol(cfg, ln))
		return
	}

	upg, err := tableflip.New(tableflip.Options{
		PIDFile: cfg.PidFile,
	})
	if err != nil {
		panic(err)
	}
	defer upg.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP)
		for range sig {
			err := upg.Upgrade()
			if err != nil {
				log.Println("upgrade failed:", err)
			}
		}
	}()

	ln, err := upg.Listen("tcp", cfg.ListenTo)
	if err != nil {
		log.Fatalln("Can't listen:", err)
	}
	defer ln.Close()
	go proxy.Serve(acceptProxyProtocol(cfg, ln))
	log.Println("Finished starting up")

	if err := upg.Ready(); err != nil {
		panic(err)
	}
	<-upg.Exit()
}

func acceptProxyProtocol(cfg config.LimboConfig, ln net.Listener) net.Listener {
	if !cfg.AcceptProxyProtocol {
		return ln
	}
	policyFunc := func(upstream net.Addr) (proxyproto.Policy, error) {
		return proxyproto.REQUIRE, nil
	}
	return &proxyproto.Listener{
		Listener: ln,
		Policy:   policyFunc,
	}
}
