package api

// Health calls /health. It is used at startup to distinguish "service
// unreachable" from "service reachable but collection empty".
func (c *Client) Health() (*HealthStatus, error) {
	data, err := c.get("/health")
	if err != nil {
		return nil, err
	}
	return decodeOne[HealthStatus](data)
}
