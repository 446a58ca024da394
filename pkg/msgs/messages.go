// Package msgs defines the messages published by the controller.
package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/toyctl/pkg/servo"
)

// ServoState is the state of a single servo.
type ServoState struct {
	Index uint32 `protobuf:"varint,1,opt,name=index,proto3" json:"index"`
	Toy   uint32 `protobuf:"varint,2,opt,name=toy,proto3" json:"toy"`
	Role  string `protobuf:"bytes,3,opt,name=role,proto3" json:"role,omitempty"`
	Pin   int32  `protobuf:"varint,4,opt,name=pin,proto3" json:"pin"`
	Angle int32  `protobuf:"varint,5,opt,name=angle,proto3" json:"angle"`
}

// ProtoMessage implements proto.Message.
func (m *ServoState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoState) Reset() { *m = ServoState{} }

// String implements proto.Message.
func (m *ServoState) String() string { return proto.CompactTextString(m) }

// BankState is the event published when servo angles changed.
type BankState struct {
	Servos []*ServoState `protobuf:"bytes,1,rep,name=servos,proto3" json:"servos,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *BankState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *BankState) Reset() { *m = BankState{} }

// String implements proto.Message.
func (m *BankState) String() string { return proto.CompactTextString(m) }

// NewBankState converts servo records.
func NewBankState(records []servo.Record) *BankState {
	m := &BankState{Servos: make([]*ServoState, len(records))}
	for n, rec := range records {
		m.Servos[n] = &ServoState{
			Index: uint32(rec.Index),
			Toy:   uint32(rec.Toy),
			Role:  rec.Role.String(),
			Pin:   int32(rec.Pin),
			Angle: int32(rec.Angle),
		}
	}
	return m
}

// EncodeBankState serializes the state of records.
func EncodeBankState(records []servo.Record) ([]byte, error) {
	return proto.Marshal(NewBankState(records))
}

// DecodeBankState parses a serialized BankState.
func DecodeBankState(data []byte) (*BankState, error) {
	m := &BankState{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Angles lists the angles by servo index.
func (m *BankState) Angles() []int {
	angles := make([]int, len(m.Servos))
	for n, s := range m.Servos {
		angles[n] = int(s.Angle)
	}
	return angles
}
