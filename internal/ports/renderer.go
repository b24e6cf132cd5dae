package ports

import "github.com/bnema/diva/internal/domain"

// Renderer writes human-readable status lines for the operator.
type Renderer interface {
	Event(event domain.Event)
	Hint()
	Echo(text string)
	Sending(text string)
	Registration(projectID, deviceID string, result domain.RegistrationResult)
}
