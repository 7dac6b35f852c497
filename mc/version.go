package mc

import "strconv"

// ProtocolVersion is the protocol number a client sends in its handshake
type ProtocolVersion int

const (
	Unknown ProtocolVersion = -1

	V1_7_2  ProtocolVersion = 4
	V1_7_6  ProtocolVersion = 5
	V1_8    ProtocolVersion = 47
	V1_9    ProtocolVersion = 107
	V1_9_1  ProtocolVersion = 108
	V1_9_2  ProtocolVersion = 109
	V1_9_4  ProtocolVersion = 110
	V1_10   ProtocolVersion = 210
	V1_11   ProtocolVersion = 315
	V1_11_1 ProtocolVersion = 316
	V1_12   ProtocolVersion = 335
	V1_12_1 ProtocolVersion = 338
	V1_12_2 ProtocolVersion = 340
	V1_13   ProtocolVersion = 393
	V1_13_1 ProtocolVersion = 401
	V1_13_2 ProtocolVersion = 404
	V1_14   ProtocolVersion = 477
	V1_14_1 ProtocolVersion = 480
	V1_14_2 ProtocolVersion = 485
	V1_14_3 ProtocolVersion = 490
	V1_14_4 ProtocolVersion = 498
	V1_15   ProtocolVersion = 573
	V1_15_1 ProtocolVersion = 575
	V1_15_2 ProtocolVersion = 578
	V1_16   ProtocolVersion = 735
	V1_16_1 ProtocolVersion = 736
	V1_16_2 ProtocolVersion = 751
	V1_16_3 ProtocolVersion = 753
	V1_16_4 ProtocolVersion = 754
	V1_17   ProtocolVersion = 755
	V1_17_1 ProtocolVersion = 756
	V1_18   ProtocolVersion = 757
	V1_18_2 ProtocolVersion = 758
)

const (
	Minimum = V1_7_2
	Maximum = V1_18_2
)

var versionNames = map[ProtocolVersion]string{
	V1_7_2:  "1.7.2",
	V1_7_6:  "1.7.6",
	V1_8:    "1.8",
	V1_9:    "1.9",
	V1_9_1:  "1.9.1",
	V1_9_2:  "1.9.2",
	V1_9_4:  "1.9.4",
	V1_10:   "1.10",
	V1_11:   "1.11",
	V1_11_1: "1.11.1",
	V1_12:   "1.12",
	V1_12_1: "1.12.1",
	V1_12_2: "1.12.2",
	V1_13:   "1.13",
	V1_13_1: "1.13.1",
	V1_13_2: "1.13.2",
	V1_14:   "1.14",
	V1_14_1: "1.14.1",
	V1_14_2: "1.14.2",
	V1_14_3: "1.14.3",
	V1_14_4: "1.14.4",
	V1_15:   "1.15",
	V1_15_1: "1.15.1",
	V1_15_2: "1.15.2",
	V1_16:   "1.16",
	V1_16_1: "1.16.1",
	V1_16_2: "1.16.2",
	V1_16_3: "1.16.3",
	V1_16_4: "1.16.4",
	V1_17:   "1.17",
	V1_17_1: "1.17.1",
	V1_18:   "1.18",
	V1_18_2: "1.18.2",
}

func (v ProtocolVersion) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}

// Supported reports whether the packet tables in this package know how to
// talk to a client with this protocol number.
func (v ProtocolVersion) Supported() bool {
	_, ok := versionNames[v]
	return ok
}

// AtLeast reports whether v is the same or a newer protocol than other
func (v ProtocolVersion) AtLeast(other ProtocolVersion) bool {
	return v >= other
}

// Before reports whether v is an older protocol than other
func (v ProtocolVersion) Before(other ProtocolVersion) bool {
	return v < other
}
