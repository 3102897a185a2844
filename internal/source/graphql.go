package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// maxErrorBody caps how much of a failed response ends up in an error message.
const maxErrorBody = 512

// GraphQLSource fetches datasets from the flow metrics GraphQL API.
type GraphQLSource struct {
	endpoint string
	token    string
	query    string
	client   *http.Client
}

var _ contract.DataSource = &GraphQLSource{} // Compile-time check

// NewGraphQLSource creates a source for endpoint. The query document is
// parsed up front so that a malformed query fails before any request is sent.
func NewGraphQLSource(endpoint, token, query string, timeout time.Duration) (*GraphQLSource, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = contract.DefaultTimeout
	}
	return &GraphQLSource{
		endpoint: endpoint,
		token:    token,
		query:    query,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// ValidateQuery checks that query is a parseable GraphQL document with exactly one operation.
func ValidateQuery(query string) error {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: query})
	if err != nil {
		return fmt.Errorf("invalid GraphQL query: %w", err)
	}
	if len(doc.Operations) != 1 {
		return fmt.Errorf("GraphQL query must contain exactly one operation (found %d)", len(doc.Operations))
	}
	if doc.Operations[0].Operation != ast.Query {
		return fmt.Errorf("GraphQL operation must be a query (found %s)", doc.Operations[0].Operation)
	}
	return nil
}

// Describe implements the DataSource interface.
func (s *GraphQLSource) Describe() string {
	return "graphql:" + s.endpoint
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Customer *schema.Dataset `json:"customer"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchDataset implements the DataSource interface.
func (s *GraphQLSource) FetchDataset(ctx context.Context, customer string) (*schema.Dataset, error) {
	if customer == "" {
		return nil, errors.New("customer is required for the graphql source")
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     s.query,
		Variables: map[string]any{"customer": customer},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("graphql API %s returned %d: %s", s.endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}
	if out.Data.Customer == nil {
		return nil, fmt.Errorf("customer %q not found", customer)
	}
	if out.Data.Customer.Customer == "" {
		out.Data.Customer.Customer = customer
	}
	return out.Data.Customer, nil
}
