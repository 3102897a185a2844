package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/flowdash/core"
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.DataSource
	mgr     contract.CacheManager
}

// configFor clones the base config for one call, applying the common tool arguments.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	customer := h.baseCfg.Customer
	if c := request.GetString("customer", ""); c != "" {
		customer = c
	}
	cfg := h.baseCfg.CloneWithCustomer(customer).WithCurrentTime(time.Now())
	if n := request.GetString("now", ""); n != "" {
		now, err := time.Parse(contract.DateFormat, n)
		if err != nil {
			return nil, fmt.Errorf("invalid now %q, expected YYYY-MM-DD", n)
		}
		cfg.Now = now
		cfg.NowPinned = true
	}
	return cfg, nil
}

// jsonResult renders a result as indented JSON text.
func jsonResult(result any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetHoursBurnup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, _, err := core.GetHoursBurnupResults(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hours burnup failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetDemandBurnup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if s := request.GetString("scope_date", ""); s != "" {
		field := schema.ScopeDateField(s)
		if _, ok := schema.ValidScopeDateFields[field]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: unknown scope_date %q", s)), nil
		}
		cfg.ScopeDate = field
	}

	result, _, err := core.GetDemandBurnupResults(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("demand burnup failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetLeadTimes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, _, err := core.GetLeadTimeResults(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lead times failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetMonthlyRollup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if l := request.GetString("locale", ""); l != "" {
		locale := schema.Locale(l)
		if _, ok := schema.ValidLocales[locale]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: unknown locale %q", l)), nil
		}
		cfg.Locale = locale
	}

	result, _, err := core.GetMonthlyResults(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("monthly rollup failed: %v", err)), nil
	}
	return jsonResult(result), nil
}
