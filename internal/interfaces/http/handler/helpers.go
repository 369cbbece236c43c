package handler

import "github.com/google/uuid"

// mustUUID parses an ID that binding has already validated as a UUID
func mustUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

// parseOptionalUUID parses a nullable ID field, "" meaning absent
func parseOptionalUUID(s *string) (*uuid.UUID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, false
	}
	return &id, true
}
