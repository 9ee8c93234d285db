package types

// ItemResult is the tagging outcome for one item as reported by the
// collaborator. Item-level failures travel inside the payload (Success
// false plus Error); transport-level failures are ordinary Go errors.
type ItemResult struct {
	Success bool     `json:"success"`
	Model   string   `json:"model"`
	Tags    []string `json:"tags"`
	Error   string   `json:"error"`
}
