package qr

import (
	"context"
	"strings"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

// BatchFailure records one item that could not be produced.
type BatchFailure struct {
	Index int
	Input string
	Err   error
}

// BatchReport summarizes a batch run. Files are written for every item not in Failures.
type BatchReport struct {
	Total        int
	SuccessCount int
	Failures     []BatchFailure
	Files        []string
}

// SplitBatch splits text into trimmed, non-blank lines.
func SplitBatch(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if item := strings.TrimSpace(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Batch classifies, renders and saves each non-blank line in order as
// qr_batch_NN.png. A failing item is logged and skipped; the rest still run.
// Batch items use the service style, carry no logo and are not recorded in history.
func (s *Service) Batch(ctx context.Context, lines []string, sink Sink) BatchReport {
	var items []string
	for _, line := range lines {
		items = append(items, SplitBatch(line)...)
	}

	report := BatchReport{Total: len(items)}

	logger.CtxInfo(ctx, "Starting batch generation", logger.LoggerInfo{
		ContextFunction: constant.CtxBatch,
		Data: map[string]interface{}{
			constant.DataTotal: report.Total,
		},
	})

	for i, item := range items {
		n := i + 1
		name := BatchFilename(n)

		if err := s.batchItem(ctx, item, name, sink); err != nil {
			logger.CtxWarn(ctx, "Batch item failed", logger.LoggerInfo{
				ContextFunction: constant.CtxBatch,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeBatchItem,
					Message: err.Error(),
					Type:    constant.ErrTypeBatch,
				},
				Data: map[string]interface{}{
					constant.DataIndex: n,
					constant.DataInput: item,
				},
			})
			report.Failures = append(report.Failures, BatchFailure{Index: n, Input: item, Err: err})
			continue
		}

		report.Files = append(report.Files, name)
	}
	report.SuccessCount = report.Total - len(report.Failures)

	logger.CtxInfo(ctx, "Batch generation finished", logger.LoggerInfo{
		ContextFunction: constant.CtxBatch,
		Data: map[string]interface{}{
			constant.DataTotal:     report.Total,
			constant.DataSucceeded: report.SuccessCount,
			constant.DataFailed:    len(report.Failures),
		},
	})

	return report
}

func (s *Service) batchItem(ctx context.Context, item, name string, sink Sink) error {
	res := s.Classify(ctx, item)
	result, err := s.render(ctx, Request{Payload: res.Payload, Kind: res.Kind, Style: s.style})
	if err != nil {
		return err
	}
	return sink.Save(ctx, name, result.Image)
}
