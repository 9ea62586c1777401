package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/simulate"
)

func (s *Server) handleOverview(ctx context.Context, req *sdk.CallToolRequest, args OverviewInput) (*sdk.CallToolResult, OverviewOutput, error) {
	ov, err := s.svc.Overview(ctx)
	if err != nil {
		return nil, OverviewOutput{}, err
	}
	return nil, OverviewOutput{Overview: ov}, nil
}

func (s *Server) handleTrend(ctx context.Context, req *sdk.CallToolRequest, args TrendInput) (*sdk.CallToolResult, TrendOutput, error) {
	from, err := parseOptionalDate(args.From, "from")
	if err != nil {
		return nil, TrendOutput{}, err
	}
	to, err := parseOptionalDate(args.To, "to")
	if err != nil {
		return nil, TrendOutput{}, err
	}

	trend, err := s.svc.Trend(ctx, from, to)
	if err != nil {
		return nil, TrendOutput{}, err
	}
	return nil, TrendOutput{Trend: trend}, nil
}

func (s *Server) handleDrivers(ctx context.Context, req *sdk.CallToolRequest, args DriversInput) (*sdk.CallToolResult, DriversOutput, error) {
	outcome := outcomeOrDefault(args.Outcome)

	drivers, err := s.svc.Drivers(ctx, outcome, args.Count)
	if err != nil {
		return nil, DriversOutput{}, err
	}
	return nil, DriversOutput{Outcome: string(outcome), Drivers: drivers}, nil
}

func (s *Server) handleTargets(ctx context.Context, req *sdk.CallToolRequest, args TargetsInput) (*sdk.CallToolResult, TargetsOutput, error) {
	targets, err := s.svc.Targets(ctx, args.Threshold, args.Limit)
	if err != nil {
		return nil, TargetsOutput{}, err
	}
	return nil, TargetsOutput{Targets: targets, Count: len(targets.Candidates)}, nil
}

func (s *Server) handleChurnRisk(ctx context.Context, req *sdk.CallToolRequest, args ChurnRiskInput) (*sdk.CallToolResult, ChurnRiskOutput, error) {
	atRisk, err := s.svc.AtRisk(ctx, args.Threshold)
	if err != nil {
		return nil, ChurnRiskOutput{}, err
	}
	return nil, ChurnRiskOutput{AtRisk: atRisk, Count: len(atRisk)}, nil
}

func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (*sdk.CallToolResult, SimulateOutput, error) {
	outcome := outcomeOrDefault(args.Outcome)

	rep, err := s.svc.Simulate(ctx, outcome, simulate.Request{
		Selected:      args.Selected,
		UpliftPercent: args.UpliftPercent,
	})
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	return nil, SimulateOutput{
		Outcome:           string(rep.Outcome),
		Result:            rep.Result,
		Headline:          rep.Interpretation.Headline,
		Favorable:         rep.Interpretation.Favorable,
		Guidance:          rep.Interpretation.Guidance,
		ConfidenceCaption: rep.ConfidenceCaption,
		PerSignal:         rep.Result.PerSignal,
	}, nil
}

func outcomeOrDefault(s string) models.Outcome {
	if s == "" {
		return models.OutcomeConversion
	}
	return models.Outcome(s)
}

func parseOptionalDate(s, name string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (want YYYY-MM-DD)", name, s)
	}
	return t, nil
}
