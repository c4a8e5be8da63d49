package usecase

import "time"

// Export for testing
var ParseGitHubURL = parseGitHubURL

// SetRateLimitWaits shortens the rate-limit sleep so tests stay fast.
func (s *GitHubService) SetRateLimitWaits(minWait, resetBuffer time.Duration) {
	s.minWait = minWait
	s.resetBuffer = resetBuffer
}
