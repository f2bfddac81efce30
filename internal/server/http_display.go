package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Fprintf(s.out, "Serving on http://%s:%s\n", s.Host, s.Port)
	fmt.Fprintln(s.out, "Available endpoints:")
	fmt.Fprintln(s.out, "  GET    /health                    - Health check")
	fmt.Fprintln(s.out, "  GET    /stats                     - Server statistics")
	fmt.Fprintln(s.out, "  POST   /sessions                  - Start an interview session")
	fmt.Fprintln(s.out, "  GET    /sessions/{id}             - Session progress and collected details")
	fmt.Fprintln(s.out, "  DELETE /sessions/{id}             - Discard a session")
	fmt.Fprintln(s.out, "  POST   /sessions/{id}/messages    - Send a candidate message")
	fmt.Fprintln(s.out, "  POST   /sessions/{id}/transcript  - Export the session transcript")
	fmt.Fprintln(s.out, "  GET    /candidates/stats          - Stored candidate statistics")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if count := s.apiKeyCount(); count > 0 {
		fmt.Fprintf(s.out, "API authentication: ENABLED (%d keys configured)\n", count)
		fmt.Fprintln(s.out, "Include 'X-API-Key: <your-key>' header in requests to /sessions and /candidates")
	} else {
		fmt.Fprintln(s.out, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(s.out, "WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(s.out, "Request size limit: %d bytes (%.1f KB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/1024)
	} else {
		fmt.Fprintln(s.out, "Request size limit: DISABLED")
		fmt.Fprintln(s.out, "WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(s.out, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(s.out, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(s.out, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(s.out, "Rate limiting: DISABLED")
		fmt.Fprintln(s.out, "WARNING: No rate limiting configured!")
	}
}
