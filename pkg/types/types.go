package types

// JSON field names of the scoring request.
const (
	FieldMonthlyRevenue      = "monthlyRevenue"
	FieldMonthlyTransactions = "monthlyTransactions"
	FieldBusinessAge         = "businessAge"
)

// ScoreRequest is the body a client sends to the scoring endpoints.
// The server accepts any JSON value per field and coerces it; clients send
// plain numbers.
type ScoreRequest struct {
	MonthlyRevenue      float64 `json:"monthlyRevenue"`
	MonthlyTransactions float64 `json:"monthlyTransactions"`
	BusinessAge         float64 `json:"businessAge"`
}

// ScoreResponse is the success payload of both scoring endpoints.
type ScoreResponse struct {
	CreditScore int `json:"creditScore"`
}

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
