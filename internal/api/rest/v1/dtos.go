package v1

// CreateUserRequest is the payload for registering an identity.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
}

// CreateTagRequest is the payload for registering a tagging label.
type CreateTagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// CreateExperimentRequest is the payload for creating an experiment.
type CreateExperimentRequest struct {
	Owner string `json:"owner" binding:"required"`
}

// ErrorResponse carries a user-visible failure message. Internal
// identifiers (locators, row ids of other tenants) are never included.
type ErrorResponse struct {
	Error string `json:"error"`
}
