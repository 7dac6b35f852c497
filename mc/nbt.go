package mc

import (
	"bytes"
	"compress/gzip"
	"encoding/json"

	"github.com/Tnze/go-mc/chat"
	"github.com/Tnze/go-mc/nbt"
)

// tagEnd is what the protocol expects where an absent nbt compound would go
var tagEnd = RawBytes{0x00}

// MarshalNBT encodes v as a network nbt compound, nil becomes TAG_End.
func MarshalNBT(v interface{}) (RawBytes, error) {
	if v == nil {
		return tagEnd, nil
	}
	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf).Encode(v, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalGzipNBT is the 1.7 item nbt encoding: a short length followed by a
// gzipped compound, or length -1 when there is no compound.
func MarshalGzipNBT(v interface{}) (RawBytes, error) {
	if v == nil {
		return RawBytes(Short(-1).Encode()), nil
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := nbt.NewEncoder(zw).Encode(v, ""); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	bb := Short(buf.Len()).Encode()
	return append(bb, buf.Bytes()...), nil
}

// TextComponent renders plain text as a json chat component
func TextComponent(text string) Chat {
	bb, err := json.Marshal(chat.Text(text))
	if err != nil {
		// a plain text message always marshals
		return Chat(`{"text":""}`)
	}
	return Chat(bb)
}

// PlainText strips a json chat component down to its text, used for logging
// disconnect reasons coming from backends.
func PlainText(component Chat) string {
	var msg chat.Message
	if err := msg.UnmarshalJSON([]byte(component)); err != nil {
		return string(component)
	}
	return msg.ClearString()
}
