package wire

// Repository is a shared project hosted on a relay.
type Repository struct {
	// Name is the unique repository name.
	Name string `json:"name"`
	// Hash is the input file hash, used to match local databases.
	Hash string `json:"hash,omitempty"`
	// File is the original input file name.
	File string `json:"file,omitempty"`
	// CreatedAt is the creation time in ms since epoch.
	CreatedAt int64 `json:"createdAt"`
}

// Branch is one line of history within a repository.
type Branch struct {
	// Repo is the owning repository name.
	Repo string `json:"repo"`
	// Name is the branch name, unique within the repository.
	Name string `json:"name"`
	// UUID is the server-assigned branch identifier.
	UUID string `json:"uuid"`
	// CreatedAt is the creation time in ms since epoch.
	CreatedAt int64 `json:"createdAt"`
}

// CreateRepoRequest is the HTTP POST /v1/repos request body.
type CreateRepoRequest struct {
	// Name is the repository name.
	Name string `json:"name"`
	// Hash is the input file hash.
	Hash string `json:"hash,omitempty"`
	// File is the original input file name.
	File string `json:"file,omitempty"`
}

// CreateBranchRequest is the HTTP POST /v1/repos/:repo/branches request body.
type CreateBranchRequest struct {
	// Name is the branch name.
	Name string `json:"name"`
}

// RepoListResponse is the HTTP GET /v1/repos response body.
type RepoListResponse struct {
	// Repos lists the repositories.
	Repos []Repository `json:"repos"`
}

// BranchListResponse is the HTTP GET /v1/repos/:repo/branches response body.
type BranchListResponse struct {
	// Branches lists the repository's branches.
	Branches []Branch `json:"branches"`
}

// ErrorResponse is the JSON error body returned by HTTP handlers.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`
}
