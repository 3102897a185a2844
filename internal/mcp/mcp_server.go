// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Shared tool parameter descriptions.
const (
	customerDescription = "Customer slug to compute the metric for (defaults to the configured customer)."
	nowDescription      = "Reference date for the current week, as YYYY-MM-DD (defaults to today)."
)

// NewMCPServer initializes and configures the flowdash MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Flowdash Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
		mgr:     mgr,
	}

	// --- 1. Tool: get_hours_burnup ---
	s.AddTool(mcp.NewTool("get_hours_burnup",
		mcp.WithDescription("Weekly hours burnup of a customer contract, with the ideal line and the hours per week needed to finish on time."),
		mcp.WithString("customer", mcp.Description(customerDescription)),
		mcp.WithString("now", mcp.Description(nowDescription)),
	), h.handleGetHoursBurnup)

	// --- 2. Tool: get_demand_burnup ---
	s.AddTool(mcp.NewTool("get_demand_burnup",
		mcp.WithDescription("Weekly burnup of delivered demands against a growing scope, with the demands needed this week."),
		mcp.WithString("customer", mcp.Description(customerDescription)),
		mcp.WithString("now", mcp.Description(nowDescription)),
		mcp.WithString("scope_date", mcp.Description("Which demand date counts as scope creation. Defaults to 'commitment'."), mcp.Enum("commitment", "created")),
	), h.handleGetDemandBurnup)

	// --- 3. Tool: get_lead_times ---
	s.AddTool(mcp.NewTool("get_lead_times",
		mcp.WithDescription("Lead times of delivered demands: P80, average, max and the weekly P80 evolution."),
		mcp.WithString("customer", mcp.Description(customerDescription)),
		mcp.WithString("now", mcp.Description(nowDescription)),
	), h.handleGetLeadTimes)

	// --- 4. Tool: get_monthly_rollup ---
	s.AddTool(mcp.NewTool("get_monthly_rollup",
		mcp.WithDescription("Hours consumed per calendar month over the contract."),
		mcp.WithString("customer", mcp.Description(customerDescription)),
		mcp.WithString("now", mcp.Description(nowDescription)),
		mcp.WithString("locale", mcp.Description("Language of month names. Defaults to the configured locale."), mcp.Enum("en", "pt-BR")),
	), h.handleGetMonthlyRollup)

	return s
}

// StartMCPServer starts the flowdash MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, src, mgr)
	return server.ServeStdio(s)
}
