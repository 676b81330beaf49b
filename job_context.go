package lwfm

import uuid "github.com/satori/go.uuid"

// JobContext represents the identity and lineage of a single job. A fresh
// context is minted when work is first conceived, often well before any site
// has seen it; site drivers fill in NativeID, SiteName, and ComputeType as
// the job makes its way onto real hardware.
type JobContext struct {
	// ID is the engine-wide unique identifier of the job.
	ID string `json:"id" bson:"id"`
	// NativeID is the site-assigned identifier. It equals ID until a site
	// driver overwrites it after real submission.
	NativeID string `json:"nativeId" bson:"nativeId"`
	// ParentJobID is the id of the job's immediate predecessor. It is empty
	// if and only if the job is seminal.
	ParentJobID string `json:"parentJobId,omitempty" bson:"parentJobId"`
	// OriginJobID is the id of the job's oldest ancestor. A seminal job is
	// its own originator.
	OriginJobID string `json:"originJobId" bson:"originJobId"`
	// Name is a human-readable label. It defaults to ID.
	Name string `json:"name,omitempty" bson:"name"`
	// SiteName names the site the job runs (or will run) on.
	SiteName string `json:"siteName,omitempty" bson:"siteName"`
	// ComputeType is the site-defined resource class the job runs on.
	ComputeType string `json:"computeType,omitempty" bson:"computeType"`
	// Group is an optional ownership tag for multi-tenant filtering.
	Group string `json:"group,omitempty" bson:"group"`
	// User is an optional ownership tag for multi-tenant filtering.
	User string `json:"user,omitempty" bson:"user"`
}

// NewJobContext returns the context of a new seminal job: a fresh id, no
// parent, and itself as its own originator.
func NewJobContext() JobContext {
	id := uuid.NewV4().String()
	return JobContext{
		ID:          id,
		NativeID:    id,
		OriginJobID: id,
		Name:        id,
	}
}

// NewChildJobContext returns the context of a new job descended from the
// given parent. The child's ParentJobID is the parent's own id and its
// OriginJobID is inherited from the parent, so the origin stays reachable
// from any descendant by following parent links. Placement and ownership
// fields are inherited as defaults; callers re-target them when the child
// runs elsewhere.
func NewChildJobContext(parent JobContext) JobContext {
	child := NewJobContext()
	child.ParentJobID = parent.ID
	if parent.OriginJobID != "" {
		child.OriginJobID = parent.OriginJobID
	} else {
		child.OriginJobID = parent.ID
	}
	child.SiteName = parent.SiteName
	child.ComputeType = parent.ComputeType
	child.Group = parent.Group
	child.User = parent.User
	return child
}

// IsSeminal returns true if the job has no predecessor.
func (j JobContext) IsSeminal() bool {
	return j.ParentJobID == ""
}

// JobContextList is an ordered list of JobContexts. Lineage responses order
// items from the origin to the requested job.
type JobContextList struct {
	TypeMeta `json:",inline"`
	// Items is a slice of JobContexts.
	Items []JobContext `json:"items"`
}

// NewJobContextList returns an empty JobContextList.
func NewJobContextList() JobContextList {
	return JobContextList{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "JobContextList",
		},
		Items: []JobContext{},
	}
}
