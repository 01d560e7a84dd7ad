package threema

import (
	"fmt"

	"github.com/bluec0re/threema-go/internal/crypto"
	"github.com/bluec0re/threema-go/internal/wire"
)

// MessageType is the one-byte discriminant that precedes every message
// payload on the wire.
type MessageType uint8

// Message type discriminants.
const (
	TypeText               MessageType = 0x01
	TypeImage              MessageType = 0x02
	TypeLocation           MessageType = 0x10
	TypeVideo              MessageType = 0x13
	TypeAudio              MessageType = 0x14
	TypePoll               MessageType = 0x15
	TypePollUpdate         MessageType = 0x16
	TypeFile               MessageType = 0x17
	TypeGroupText          MessageType = 0x41
	TypeGroupImage         MessageType = 0x43
	TypeGroupSetMembers    MessageType = 0x4a
	TypeGroupSetName       MessageType = 0x4b
	TypeGroupMemberLeft    MessageType = 0x4c
	TypeDeliveryReceipt    MessageType = 0x80
	TypeTypingNotification MessageType = 0x90
)

// Message is implemented by every end-to-end message payload.
type Message interface {
	// Type returns the wire discriminant of the message.
	Type() MessageType
}

// DeliveryStatus is the status reported by a delivery receipt.
type DeliveryStatus uint8

// Delivery receipt statuses.
const (
	StatusDelivered   DeliveryStatus = 1
	StatusRead        DeliveryStatus = 2
	StatusApproved    DeliveryStatus = 3
	StatusDisapproved DeliveryStatus = 4
)

func (s DeliveryStatus) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusRead:
		return "read"
	case StatusApproved:
		return "approved"
	case StatusDisapproved:
		return "disapproved"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// BlobID references an uploaded media blob.
type BlobID [16]byte

// TextMessage is a plain UTF-8 text message.
type TextMessage struct {
	Text string
}

func (*TextMessage) Type() MessageType { return TypeText }

// MarshalWire implements wire.Marshaler.
func (m *TextMessage) MarshalWire() ([]byte, error) {
	return []byte(m.Text), nil
}

// UnmarshalWire implements wire.Unmarshaler.
func (m *TextMessage) UnmarshalWire(data []byte) (int, error) {
	m.Text = string(data)
	return len(data), nil
}

// ImageMessage references an encrypted image blob.
type ImageMessage struct {
	Blob  BlobID
	Size  uint32
	Nonce [crypto.NonceSize]byte
}

func (*ImageMessage) Type() MessageType { return TypeImage }

// LocationMessage carries coordinates as text: "lat,lon" optionally
// followed by newline-separated address lines.
type LocationMessage struct {
	Coordinates string
}

func (*LocationMessage) Type() MessageType { return TypeLocation }

// MarshalWire implements wire.Marshaler.
func (m *LocationMessage) MarshalWire() ([]byte, error) {
	return []byte(m.Coordinates), nil
}

// UnmarshalWire implements wire.Unmarshaler.
func (m *LocationMessage) UnmarshalWire(data []byte) (int, error) {
	m.Coordinates = string(data)
	return len(data), nil
}

// VideoMessage references an encrypted video blob plus its thumbnail.
type VideoMessage struct {
	Duration      uint16 // seconds
	Blob          BlobID
	Size          uint32
	ThumbnailBlob BlobID
	ThumbnailSize uint32
	Nonce         [crypto.NonceSize]byte
}

func (*VideoMessage) Type() MessageType { return TypeVideo }

// AudioMessage references an encrypted audio blob.
type AudioMessage struct {
	Duration uint16 // seconds
	Blob     BlobID
	Size     uint32
	Nonce    [crypto.NonceSize]byte
}

func (*AudioMessage) Type() MessageType { return TypeAudio }

// PollMessage creates a poll. Details carries the poll definition as
// JSON, opaque to the wire layer.
type PollMessage struct {
	PollID  [8]byte
	Details []byte
}

func (*PollMessage) Type() MessageType { return TypePoll }

// PollUpdateMessage casts or updates a vote on a poll created by
// Creator. Votes carries the choices as JSON.
type PollUpdateMessage struct {
	Creator ThreemaID
	PollID  [8]byte
	Votes   []byte
}

func (*PollUpdateMessage) Type() MessageType { return TypePollUpdate }

// FileMessage references an encrypted file blob. Details carries the
// file metadata (blob IDs, mime type, name, size) as JSON.
type FileMessage struct {
	Details []byte
}

func (*FileMessage) Type() MessageType { return TypeFile }

// GroupTextMessage is a text message to a group.
type GroupTextMessage struct {
	Creator ThreemaID
	GroupID [8]byte
	Text    string
}

func (*GroupTextMessage) Type() MessageType { return TypeGroupText }

// MarshalWire implements wire.Marshaler.
func (m *GroupTextMessage) MarshalWire() ([]byte, error) {
	buf := make([]byte, 0, len(m.Creator)+len(m.GroupID)+len(m.Text))
	buf = append(buf, m.Creator[:]...)
	buf = append(buf, m.GroupID[:]...)
	return append(buf, m.Text...), nil
}

// UnmarshalWire implements wire.Unmarshaler.
func (m *GroupTextMessage) UnmarshalWire(data []byte) (int, error) {
	if len(data) < len(m.Creator)+len(m.GroupID) {
		return 0, wire.ErrShortBuffer
	}
	copy(m.Creator[:], data)
	copy(m.GroupID[:], data[len(m.Creator):])
	m.Text = string(data[len(m.Creator)+len(m.GroupID):])
	return len(data), nil
}

// GroupImageMessage references an encrypted image blob shared with a
// group. Group media is encrypted with a symmetric key instead of a
// per-recipient box, so the key travels in the message.
type GroupImageMessage struct {
	Creator ThreemaID
	GroupID [8]byte
	Blob    BlobID
	Size    uint32
	Key     [crypto.KeySize]byte
}

func (*GroupImageMessage) Type() MessageType { return TypeGroupImage }

// GroupSetMembersMessage replaces the member list of a group. Only the
// group creator sends it, so the group is identified by GroupID alone.
type GroupSetMembersMessage struct {
	GroupID [8]byte
	Members []ThreemaID
}

func (*GroupSetMembersMessage) Type() MessageType { return TypeGroupSetMembers }

// MarshalWire implements wire.Marshaler.
func (m *GroupSetMembersMessage) MarshalWire() ([]byte, error) {
	buf := make([]byte, 0, len(m.GroupID)+len(m.Members)*IDLength)
	buf = append(buf, m.GroupID[:]...)
	for _, member := range m.Members {
		buf = append(buf, member[:]...)
	}
	return buf, nil
}

// UnmarshalWire implements wire.Unmarshaler.
func (m *GroupSetMembersMessage) UnmarshalWire(data []byte) (int, error) {
	if len(data) < len(m.GroupID) {
		return 0, wire.ErrShortBuffer
	}
	copy(m.GroupID[:], data)
	rest := data[len(m.GroupID):]
	if len(rest)%IDLength != 0 {
		return 0, fmt.Errorf("member list is %d bytes, want a multiple of %d", len(rest), IDLength)
	}
	m.Members = make([]ThreemaID, len(rest)/IDLength)
	for i := range m.Members {
		copy(m.Members[i][:], rest[i*IDLength:])
	}
	return len(data), nil
}

// GroupSetNameMessage renames a group.
type GroupSetNameMessage struct {
	GroupID [8]byte
	Name    string
}

func (*GroupSetNameMessage) Type() MessageType { return TypeGroupSetName }

// MarshalWire implements wire.Marshaler.
func (m *GroupSetNameMessage) MarshalWire() ([]byte, error) {
	buf := make([]byte, 0, len(m.GroupID)+len(m.Name))
	buf = append(buf, m.GroupID[:]...)
	return append(buf, m.Name...), nil
}

// UnmarshalWire implements wire.Unmarshaler.
func (m *GroupSetNameMessage) UnmarshalWire(data []byte) (int, error) {
	if len(data) < len(m.GroupID) {
		return 0, wire.ErrShortBuffer
	}
	copy(m.GroupID[:], data)
	m.Name = string(data[len(m.GroupID):])
	return len(data), nil
}

// GroupMemberLeftMessage announces that the sender left the group.
type GroupMemberLeftMessage struct {
	Creator ThreemaID
	GroupID [8]byte
}

func (*GroupMemberLeftMessage) Type() MessageType { return TypeGroupMemberLeft }

// DeliveryReceipt acknowledges one or more previously received
// messages.
type DeliveryReceipt struct {
	Status     DeliveryStatus
	MessageIDs []MessageID
}

func (*DeliveryReceipt) Type() MessageType { return TypeDeliveryReceipt }

// MarshalWire implements wire.Marshaler.
func (m *DeliveryReceipt) MarshalWire() ([]byte, error) {
	if len(m.MessageIDs) == 0 {
		return nil, fmt.Errorf("delivery receipt needs at least one message ID")
	}
	buf := make([]byte, 0, 1+len(m.MessageIDs)*8)
	buf = append(buf, byte(m.Status))
	for _, id := range m.MessageIDs {
		buf = append(buf, id[:]...)
	}
	return buf, nil
}

// UnmarshalWire implements wire.Unmarshaler.
func (m *DeliveryReceipt) UnmarshalWire(data []byte) (int, error) {
	if len(data) < 1+8 {
		return 0, wire.ErrShortBuffer
	}
	rest := data[1:]
	if len(rest)%8 != 0 {
		return 0, fmt.Errorf("receipt ID list is %d bytes, want a multiple of 8", len(rest))
	}
	m.Status = DeliveryStatus(data[0])
	m.MessageIDs = make([]MessageID, len(rest)/8)
	for i := range m.MessageIDs {
		copy(m.MessageIDs[i][:], rest[i*8:])
	}
	return len(data), nil
}

// TypingNotification signals whether the sender is currently typing.
type TypingNotification struct {
	Typing uint8 // 1 while typing, 0 when stopped
}

func (*TypingNotification) Type() MessageType { return TypeTypingNotification }

// messages is the wire schema of the end-to-end message union.
var messages = wire.NewRegistry("message", 1)

func init() {
	register := func(tag MessageType, factory func() any) {
		messages.Register(uint64(tag), factory)
	}
	register(TypeText, func() any { return new(TextMessage) })
	register(TypeImage, func() any { return new(ImageMessage) })
	register(TypeLocation, func() any { return new(LocationMessage) })
	register(TypeVideo, func() any { return new(VideoMessage) })
	register(TypeAudio, func() any { return new(AudioMessage) })
	register(TypePoll, func() any { return new(PollMessage) })
	register(TypePollUpdate, func() any { return new(PollUpdateMessage) })
	register(TypeFile, func() any { return new(FileMessage) })
	register(TypeGroupText, func() any { return new(GroupTextMessage) })
	register(TypeGroupImage, func() any { return new(GroupImageMessage) })
	register(TypeGroupSetMembers, func() any { return new(GroupSetMembersMessage) })
	register(TypeGroupSetName, func() any { return new(GroupSetNameMessage) })
	register(TypeGroupMemberLeft, func() any { return new(GroupMemberLeftMessage) })
	register(TypeDeliveryReceipt, func() any { return new(DeliveryReceipt) })
	register(TypeTypingNotification, func() any { return new(TypingNotification) })
}

// EncodeMessage serializes msg into its padded wire form, ready to be
// sealed. Padding length is drawn fresh on every call, so two
// encodings of the same message usually differ in length.
func EncodeMessage(msg Message) ([]byte, error) {
	encoded, err := messages.Encode(msg)
	if err != nil {
		return nil, err
	}
	return crypto.Pad(encoded)
}

// DecodeMessage parses a decrypted, padded payload back into a typed
// message.
func DecodeMessage(data []byte) (Message, error) {
	unpadded, err := crypto.Unpad(data)
	if err != nil {
		return nil, wrapError(err)
	}
	v, err := messages.DecodeStrict(unpadded)
	if err != nil {
		return nil, wrapError(err)
	}
	msg, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a message", ErrDecodingFailed, v)
	}
	return msg, nil
}
