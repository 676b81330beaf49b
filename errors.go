package lwfm

import "fmt"

// ErrAuthentication is returned when the sentinel could not establish who or
// what issued a request.
type ErrAuthentication struct {
	TypeMeta `json:",inline"`
	Reason   string `json:"reason"`
}

// NewErrAuthentication returns an ErrAuthentication with the given reason.
func NewErrAuthentication(reason string) *ErrAuthentication {
	return &ErrAuthentication{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "AuthenticationError",
		},
		Reason: reason,
	}
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("Could not authenticate the request: %s", e.Reason)
}

// ErrBadRequest is returned when a request payload is malformed or fails
// JSON schema validation. Nothing is mutated on the sentinel's side.
type ErrBadRequest struct {
	TypeMeta `json:",inline"`
	Reason   string   `json:"reason"`
	Details  []string `json:"details,omitempty"`
}

// NewErrBadRequest returns an ErrBadRequest with the given reason and
// optional details, e.g. one entry per schema validation failure.
func NewErrBadRequest(reason string, details ...string) *ErrBadRequest {
	return &ErrBadRequest{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "BadRequestError",
		},
		Reason:  reason,
		Details: details,
	}
}

func (e *ErrBadRequest) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("Bad request: %s", e.Reason)
	}
	msg := fmt.Sprintf("Bad request: %s:", e.Reason)
	for i, detail := range e.Details {
		msg = fmt.Sprintf("%s\n  %d. %s", msg, i, detail)
	}
	return msg
}

// ErrNotFound is returned on lookup of a job, trigger, or other resource the
// sentinel is not tracking. It is a negative result, not a fault.
type ErrNotFound struct {
	TypeMeta `json:",inline"`
	Type     string `json:"type"`
	ID       string `json:"id"`
}

// NewErrNotFound returns an ErrNotFound for the given resource type and id.
func NewErrNotFound(tipe, id string) *ErrNotFound {
	return &ErrNotFound{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "NotFoundError",
		},
		Type: tipe,
		ID:   id,
	}
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found.", e.Type, e.ID)
}

// ErrConflict is returned when a request contradicts state the sentinel
// already holds, e.g. a watch claiming different lineage than was previously
// recorded for the same job.
type ErrConflict struct {
	TypeMeta `json:",inline"`
	Type     string `json:"type"`
	ID       string `json:"id"`
	Reason   string `json:"reason,omitempty"`
}

// NewErrConflict returns an ErrConflict for the given resource type and id.
func NewErrConflict(tipe string, id string, reason string) *ErrConflict {
	return &ErrConflict{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "ConflictError",
		},
		Type:   tipe,
		ID:     id,
		Reason: reason,
	}
}

func (e *ErrConflict) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("The %s %q conflicts with existing state.", e.Type, e.ID)
}

// ErrInternalServer is returned when the sentinel itself fails -- most often
// because its store is unreachable. The request failed fast; previously
// committed state is unaffected.
type ErrInternalServer struct {
	TypeMeta `json:",inline"`
}

// NewErrInternalServer returns an ErrInternalServer.
func NewErrInternalServer() *ErrInternalServer {
	return &ErrInternalServer{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "InternalServerError",
		},
	}
}

func (e *ErrInternalServer) Error() string {
	return "An internal server error occurred."
}

// ErrNotSupported is returned for operations the sentinel understands but
// does not implement.
type ErrNotSupported struct {
	TypeMeta `json:",inline"`
	Details  string `json:"reason"`
}

// NewErrNotSupported returns an ErrNotSupported with the given details.
func NewErrNotSupported(details string) *ErrNotSupported {
	return &ErrNotSupported{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "NotSupportedError",
		},
		Details: details,
	}
}

func (e *ErrNotSupported) Error() string {
	return e.Details
}
