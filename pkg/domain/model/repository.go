package model

// Repository identifies the GitHub repository whose workflow runs are
// inspected. It comes from the --owner/--repo flags or the origin remote.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form used in report records and logs.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
