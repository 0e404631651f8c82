package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/mapping"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/daquezad/CX-Licensing-Automation/internal/xlsx"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>License Reconciliation</title></head>
<body>
  <h1>License Reconciliation</h1>
  <p>Upload the PRE-EA report and the CSSM licensing export. The response
  is the report workbook with every row colored by its outcome.</p>
  <form action="/compare" method="post" enctype="multipart/form-data">
    <p>PRE-EA report: <input type="file" name="pre_ea" accept=".xlsx" required></p>
    <p>CSSM export: <input type="file" name="cssm" accept=".xlsx" required></p>
    <p>PID to SKU exceptions (optional): <input type="file" name="sku_map" accept=".json"></p>
    <p>Allocation:
      <select name="policy">
        <option value="exact" selected>exact row</option>
        <option value="cumulative">cumulative sum</option>
      </select>
    </p>
    <p><button type="submit">Compare</button></p>
  </form>
</body>
</html>`

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(indexPage)
}

// handleCompare runs the full pipeline on the uploaded workbooks and
// responds with the annotated report as an attachment.
func (s *Server) handleCompare(c *fiber.Ctx) error {
	preEA, err := formFileBytes(c, "pre_ea")
	if err != nil {
		return badRequest(c, "missing PRE-EA report upload", err)
	}
	cssm, err := formFileBytes(c, "cssm")
	if err != nil {
		return badRequest(c, "missing CSSM export upload", err)
	}

	aliases, err := uploadedAliasMap(c)
	if err != nil {
		return badRequest(c, "invalid exception map", err)
	}

	report, err := xlsx.ReadReport(bytes.NewReader(preEA))
	if err != nil {
		return badRequest(c, "failed to load PRE-EA report", err)
	}
	licenses, err := xlsx.ReadLicenses(bytes.NewReader(cssm))
	if err != nil {
		return badRequest(c, "failed to load CSSM export", err)
	}

	policy := s.config.Policy
	if v := c.FormValue("policy"); v != "" {
		switch engine.Policy(v) {
		case engine.PolicyExactRow, engine.PolicyCumulative:
			policy = engine.Policy(v)
		default:
			return badRequest(c, fmt.Sprintf("unknown allocation policy %q", v), nil)
		}
	}

	result, err := engine.New(aliases, engine.WithPolicy(policy)).Run(c.Context(), report, licenses)
	if err != nil {
		slog.Error("Reconciliation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	annotated, err := xlsx.Annotate(bytes.NewReader(preEA), result)
	if err != nil {
		slog.Error("Annotation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if c.Query("format") == "json" {
		return c.JSON(summaryPayload(result))
	}

	name := comparedName(formFileName(c, "pre_ea"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	c.Set("X-Run-Id", result.RunID)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(annotated)
}

func summaryPayload(result *engine.Result) fiber.Map {
	counts := make(map[string]int, len(result.Counts))
	for _, outcome := range model.Outcomes() {
		counts[string(outcome)] = result.Count(outcome)
	}
	return fiber.Map{
		"run_id":            result.RunID,
		"policy":            string(result.Policy),
		"rows":              len(result.Rows),
		"claimed_licenses":  result.Claimed,
		"counts_by_outcome": counts,
	}
}

func uploadedAliasMap(c *fiber.Ctx) (model.AliasMap, error) {
	data, err := formFileBytes(c, "sku_map")
	if err != nil {
		return model.AliasMap{}, nil // the map is optional
	}
	return mapping.Parse(bytes.NewReader(data))
}

func formFileBytes(c *fiber.Ctx, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipart(fh)
}

func readMultipart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close upload", "file", fh.Filename, "error", closeErr)
		}
	}()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read upload %q: %w", fh.Filename, err)
	}
	return buf.Bytes(), nil
}

func formFileName(c *fiber.Ctx, field string) string {
	if fh, err := c.FormFile(field); err == nil {
		return fh.Filename
	}
	return ""
}

// comparedName derives the download name from the uploaded report name,
// mirroring the historical "<name>_compared.xlsx" convention.
func comparedName(uploaded string) string {
	base := filepath.Base(uploaded)
	if base == "" || base == "." {
		return "report_compared.xlsx"
	}
	if strings.HasSuffix(base, ".xlsx") {
		return strings.TrimSuffix(base, ".xlsx") + "_compared.xlsx"
	}
	return base + "_compared.xlsx"
}

func badRequest(c *fiber.Ctx, msg string, err error) error {
	if err != nil {
		slog.Warn("Rejected compare request", "reason", msg, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("%s: %v", msg, err)})
	}
	slog.Warn("Rejected compare request", "reason", msg)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
