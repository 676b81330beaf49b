package lwfm

import "time"

// APIVersion represents the API and major version thereof with which this
// version of the lwfm SDK is compatible.
const APIVersion = "github.com/gr80mcbr/lwfm"

// TypeMeta represents metadata about a resource type to help clients and
// servers mutually head off potential confusion over types (and versions
// thereof) sent over the wire.
type TypeMeta struct {
	// Kind specifies the type of a serialized resource.
	Kind string `json:"kind,omitempty" bson:"kind,omitempty"`
	// APIVersion specifies the major version of the lwfm API with which the
	// client or server having serialized the resource is compatible.
	APIVersion string `json:"apiVersion,omitempty" bson:"apiVersion,omitempty"`
}

// Ack represents the sentinel's receipt of a wire operation. The operation
// itself succeeded and its effects are durable; Warnings carry any non-fatal
// faults (failed trigger dispatches) encountered while it was processed.
type Ack struct {
	TypeMeta `json:",inline"`
	// Received indicates the time the sentinel accepted the operation.
	Received time.Time `json:"received"`
	// Warnings lists non-fatal faults, one per failed trigger dispatch.
	Warnings []string `json:"warnings,omitempty"`
}

// NewAck returns an Ack stamped with the given receipt time.
func NewAck(received time.Time) Ack {
	return Ack{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "Ack",
		},
		Received: received,
	}
}
