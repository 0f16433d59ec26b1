package domain

// Result is the outcome of one workflow invocation: either a list of
// profiles or an error description. The fields are unexported so the only
// way to build a Result is through Success or Failure.
type Result struct {
	profiles []Profile
	err      string
	failed   bool
}

// Success creates a successful Result. A nil slice is normalized to an empty one.
func Success(profiles []Profile) Result {
	if profiles == nil {
		profiles = []Profile{}
	}
	return Result{profiles: profiles}
}

// Failure creates a failed Result carrying the user-facing error description.
func Failure(message string) Result {
	return Result{err: message, failed: true}
}

// IsSuccess returns true if the Result holds profiles.
func (r Result) IsSuccess() bool {
	return !r.failed
}

// Profiles returns the decoded profiles, or nil for a failed Result.
func (r Result) Profiles() []Profile {
	if r.failed {
		return nil
	}
	return r.profiles
}

// Error returns the error description, or "" for a successful Result.
func (r Result) Error() string {
	return r.err
}
