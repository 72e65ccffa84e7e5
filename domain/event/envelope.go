/*
Package event defines the wire envelope for domain events and the publisher
contract. Producers build an Envelope after the triggering write is durable and
hand it to a Publisher; delivery guarantees belong to the publisher.
*/
package event

import (
	"encoding/json"
	"fmt"
	"maps"
)

// SchemaVersion envelope schema version
const SchemaVersion = "1.0.0"

// Envelope wire format of every published event
type Envelope struct {
	EventID        string            `json:"event_id"`
	TraceID        string            `json:"trace_id"`
	EventType      string            `json:"event_type"`
	SchemaVersion  string            `json:"schema_version"`
	OccurredAt     string            `json:"occurred_at"`
	Source         string            `json:"source"`
	Payload        map[string]any    `json:"payload"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	UpdatedObjects []UpdatedObject   `json:"updated_objects,omitempty"`
}

// UpdatedObject snapshot of an entity mutated by the triggering action
type UpdatedObject struct {
	ObjectType string         `json:"object_type"`
	ObjectRef  map[string]any `json:"object_ref"`
	Object     map[string]any `json:"object"`
}

// RefBinding replaces a full object at Path in the payload with a reference built from PrimaryKeys
type RefBinding struct {
	ObjectType  string
	Path        []string
	PrimaryKeys []string
}

// Spec input of NewEnvelope
type Spec struct {
	EventType  string
	Source     string
	TraceID    string
	Payload    any
	Attributes map[string]string
	Bindings   []RefBinding
}

// NewEnvelope encodes the payload, applies ref bindings and stamps id and time.
// An empty TraceID falls back to the event id.
func NewEnvelope(spec Spec) (Envelope, error) {
	payload, err := toMap(spec.Payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", spec.EventType, err)
	}

	updated := BindRefs(payload, spec.Bindings)

	id := NewEventID()
	trace := spec.TraceID
	if trace == "" {
		trace = id
	}

	var attrs map[string]string
	if len(spec.Attributes) > 0 {
		attrs = maps.Clone(spec.Attributes)
	}

	return Envelope{
		EventID:        id,
		TraceID:        trace,
		EventType:      spec.EventType,
		SchemaVersion:  SchemaVersion,
		OccurredAt:     NowISO(),
		Source:         spec.Source,
		Payload:        payload,
		Attributes:     attrs,
		UpdatedObjects: updated,
	}, nil
}

// BindRefs rewrites payload in place and returns the snapshots it replaced.
// Paths that are missing, or whose value lacks a primary key, are left untouched.
func BindRefs(payload map[string]any, bindings []RefBinding) []UpdatedObject {
	var updated []UpdatedObject
	for _, b := range bindings {
		if len(b.Path) == 0 {
			continue
		}
		parent := payload
		for _, key := range b.Path[:len(b.Path)-1] {
			next, ok := parent[key].(map[string]any)
			if !ok {
				parent = nil
				break
			}
			parent = next
		}
		if parent == nil {
			continue
		}

		leaf := b.Path[len(b.Path)-1]
		object, ok := parent[leaf].(map[string]any)
		if !ok {
			continue
		}

		ref := make(map[string]any, len(b.PrimaryKeys))
		for _, pk := range b.PrimaryKeys {
			if v, ok := object[pk]; ok {
				ref[pk] = v
			}
		}
		if len(ref) != len(b.PrimaryKeys) {
			continue
		}

		parent[leaf] = ref
		updated = append(updated, UpdatedObject{
			ObjectType: b.ObjectType,
			ObjectRef:  maps.Clone(ref),
			Object:     object,
		})
	}
	return updated
}

func toMap(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	if m, ok := v.(map[string]any); ok {
		return maps.Clone(m), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
