package domain

import "fmt"

const ClientTypeSDKLibrary = "SDK_LIBRARY"

type Device struct {
	ID         string
	ModelID    string
	ClientType string
}

func NewDevice(id, modelID string) Device {
	return Device{ID: id, ModelID: modelID, ClientType: ClientTypeSDKLibrary}
}

type RegistrationResult string

const (
	RegistrationSkipped           RegistrationResult = "skipped"
	RegistrationAlreadyRegistered RegistrationResult = "already_registered"
	RegistrationCreated           RegistrationResult = "created"
)

// LookupPolicy decides how a non-404 device lookup response is interpreted.
type LookupPolicy string

const (
	// LookupAssumeRegistered treats every non-404 lookup status as registered.
	LookupAssumeRegistered LookupPolicy = "assume-registered"
	// LookupStrict only accepts 200 as registered and fails on anything else.
	LookupStrict LookupPolicy = "strict"
)

func ParseLookupPolicy(raw string) (LookupPolicy, error) {
	switch policy := LookupPolicy(raw); policy {
	case "", LookupAssumeRegistered:
		return LookupAssumeRegistered, nil
	case LookupStrict:
		return policy, nil
	default:
		return "", fmt.Errorf("unsupported lookup policy %q", raw)
	}
}
