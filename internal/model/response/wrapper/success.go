package wrapper

type ResponseWrapper struct {
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

type SuccessWrapper struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type ErrorWrapper struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// RateLimitWrapper is returned with 429; RetryAfter is in seconds.
type RateLimitWrapper struct {
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	RetryAfter int    `json:"retryAfter"`
}
