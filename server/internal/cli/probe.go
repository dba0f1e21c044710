package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/spf13/cobra"

	"github.com/creditlens/creditscore/pkg/types"
)

const defaultProbeTimeout = 10 * time.Second

// ProbeError is a non-2xx response from the scoring API.
type ProbeError struct {
	Status  int
	Message string
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe: status %d: %s", e.Status, e.Message)
}

func newProbeCmd() *cobra.Command {
	var (
		in      metricFlags
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "POST metrics to a running server and print the score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: timeout}
			score, err := probe(cmd.Context(), client, url, in.request())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), score)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/calculateCreditScore", "scoring endpoint URL")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultProbeTimeout, "request timeout")
	return cmd
}

// probe POSTs req to url and returns the creditScore from the response.
func probe(ctx context.Context, client *http.Client, url string, req types.ScoreRequest) (int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("probe: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("probe: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("probe: http post: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("probe: read response: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("probe: status %d: decode response: %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := extract(doc, "$.error")
		return 0, &ProbeError{Status: resp.StatusCode, Message: fmt.Sprint(msg)}
	}

	v, err := extract(doc, "$.creditScore")
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("probe: creditScore is %T, want number", v)
	}
	return int(f), nil
}

// extract evaluates a JSONPath expression against a decoded JSON document.
func extract(doc interface{}, expr string) (interface{}, error) {
	v, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("probe: extract %s: %w", expr, err)
	}
	return v, nil
}
