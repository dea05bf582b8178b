package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/model"
	"servicedirectory/internal/service"
)

const maxSourceBytes = 32 << 20

type seedResult struct {
	Created int
	Skipped int
	Failed  int
}

// readSource reads a local file or fetches an http(s) URL.
func readSource(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func decodeRecords(data []byte) ([]model.ServiceRecord, error) {
	var records []model.ServiceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return records, nil
}

// seedServices inserts every record. Records failing validation are skipped;
// store failures are counted and the run continues.
func seedServices(ctx context.Context, directory service.DirectoryService, records []model.ServiceRecord, logger *zap.Logger) seedResult {
	var result seedResult
	for i := range records {
		rec := records[i]
		if _, err := directory.AddService(ctx, &rec); err != nil {
			var verr *apperrors.ValidationError
			if errors.As(err, &verr) {
				logger.Warn("skipping invalid record", zap.Int("index", i), zap.String("service_name", rec.ServiceName), zap.Error(err))
				result.Skipped++
				continue
			}
			logger.Error("insert record", zap.Int("index", i), zap.Error(err))
			result.Failed++
			continue
		}
		result.Created++
	}
	return result
}
