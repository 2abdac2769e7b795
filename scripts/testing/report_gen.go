// Command report_gen turns `go test -json` output into JSON, Markdown, and
// HTML reports. Each test is joined with the annotation block above its
// declaration (TestPurpose, Scope, Security, Permissions, Expected,
// Test Case ID), so the reports read as a traceable test inventory rather
// than a bare pass/fail list.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const modulePath = "github.com/ledgergate/ledgergate/"

// Annotation holds the metadata parsed from a test's doc comment.
type Annotation struct {
	Name        string `json:"name"`
	Purpose     string `json:"purpose,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Security    string `json:"security,omitempty"`
	Permissions string `json:"permissions,omitempty"`
	Expected    string `json:"expected,omitempty"`
	TestCaseID  string `json:"test_case_id,omitempty"`
	Package     string `json:"package"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// testEvent is one line of `go test -json` output.
type testEvent struct {
	Action  string  `json:"Action"`
	Package string  `json:"Package"`
	Test    string  `json:"Test"`
	Elapsed float64 `json:"Elapsed"`
	Output  string  `json:"Output"`
}

// TestResult merges a test's outcome with its annotation.
type TestResult struct {
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Elapsed     float64    `json:"elapsed_seconds"`
	Package     string     `json:"package"`
	Failure     string     `json:"failure_reason,omitempty"`
	Annotations Annotation `json:"annotations"`
}

// Report is the full generated report.
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Total       int          `json:"total"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Results     []TestResult `json:"results"`
}

// categoryOrder fixes the section order in rendered reports.
var categoryOrder = []string{
	"AuthZ", "AuthN", "Tenant", "Records", "Audit", "Storage", "Config",
	"Policy API", "Tenant API", "Records API", "API",
	"SYSTEM Tests", "E2E Tests", "Other", "Uncategorized",
}

func main() {
	inputPath := flag.String("input", "", "Path to go test -json output file")
	outputJSON := flag.String("out-json", "", "Path for output JSON report")
	outputMD := flag.String("out-md", "", "Path for output Markdown report")
	outputHTML := flag.String("out-html", "", "Path for output HTML report (optional)")
	title := flag.String("title", "Test Report", "Report title")
	filterCats := flag.String("filter-categories", "", "Comma-separated categories to include")
	excludeCats := flag.String("exclude-categories", "", "Comma-separated categories to exclude")
	filterType := flag.String("filter-type", "", "Only include this test type (UT, SYSTEM, E2E)")
	excludeType := flag.String("exclude-type", "", "Exclude this test type (UT, SYSTEM, E2E)")
	flag.Parse()

	if *inputPath == "" || *outputJSON == "" || *outputMD == "" {
		fmt.Println("Usage: report_gen -input <json_file> -out-json <out_json> -out-md <out_md>")
		os.Exit(1)
	}

	annotations := scanAnnotations()
	results := mergeEvents(*inputPath, annotations)
	results = filterResults(results, *filterCats, *excludeCats, *filterType, *excludeType)

	report := summarize(results)
	writeJSON(report, *outputJSON)
	writeMarkdown(report, *outputMD, *title)
	if *outputHTML != "" {
		writeHTML(report, *outputHTML, *title)
	}

	// A non-zero exit keeps CI gates honest
	if report.Failed > 0 {
		fmt.Printf("\n%d tests failed\n", report.Failed)
		os.Exit(1)
	}
}

// scanAnnotations walks the repository for _test.go files and collects the
// doc-comment annotations of every Test function.
func scanAnnotations() map[string]Annotation {
	annotations := make(map[string]Annotation)
	fset := token.NewFileSet()

	filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if strings.Contains(path, "vendor/") || strings.Contains(path, ".git/") {
			return nil
		}

		node, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil
		}

		pkg := packagePath(path)
		for _, decl := range node.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || !strings.HasPrefix(fn.Name.Name, "Test") {
				continue
			}

			ann := Annotation{
				Name:     fn.Name.Name,
				Package:  pkg,
				Type:     testType(pkg),
				Category: category(pkg, fn.Name.Name),
			}
			if fn.Doc != nil {
				for _, line := range fn.Doc.List {
					text := strings.TrimSpace(strings.TrimPrefix(line.Text, "//"))
					for field, dst := range map[string]*string{
						"TestPurpose:":  &ann.Purpose,
						"Scope:":        &ann.Scope,
						"Security:":     &ann.Security,
						"Permissions:":  &ann.Permissions,
						"Expected:":     &ann.Expected,
						"Test Case ID:": &ann.TestCaseID,
					} {
						if strings.HasPrefix(text, field) {
							*dst = strings.TrimSpace(strings.TrimPrefix(text, field))
						}
					}
				}
			}
			annotations[pkg+"."+fn.Name.Name] = ann
		}
		return nil
	})

	return annotations
}

func packagePath(filePath string) string {
	dir := strings.TrimPrefix(filepath.Dir(filePath), "./")
	if dir == "." {
		return "main"
	}
	return modulePath + dir
}

func testType(pkg string) string {
	rel := strings.TrimPrefix(pkg, modulePath)
	if strings.HasPrefix(rel, "tests/") {
		if parts := strings.Split(rel, "/"); len(parts) > 1 {
			return strings.ToUpper(parts[1])
		}
	}
	return "UT"
}

// category buckets a test by the part of the system it covers.
func category(pkg, testName string) string {
	switch {
	case strings.Contains(pkg, "authz"):
		return "AuthZ"
	case strings.Contains(pkg, "adminauth"):
		return "AuthN"
	case strings.Contains(pkg, "tenantctx"), strings.Contains(pkg, "internal/tenant"):
		return "Tenant"
	case strings.Contains(pkg, "records"), strings.Contains(pkg, "scope"):
		return "Records"
	case strings.Contains(pkg, "audit"):
		return "Audit"
	case strings.Contains(pkg, "store"):
		return "Storage"
	case strings.Contains(pkg, "config"):
		return "Config"
	case strings.Contains(pkg, "transport/http"):
		switch {
		case strings.HasPrefix(testName, "TestPolicy"):
			return "Policy API"
		case strings.Contains(testName, "Tenant"), strings.Contains(testName, "Member"):
			return "Tenant API"
		case strings.Contains(testName, "Records"), strings.Contains(testName, "Platform"):
			return "Records API"
		default:
			return "API"
		}
	}
	if t := testType(pkg); t != "UT" {
		return t + " Tests"
	}
	return "Other"
}

// mergeEvents replays the go test -json stream over the annotation index.
// Tests that never ran stay in the report with status "not run"; subtests
// inherit their parent's annotation.
func mergeEvents(path string, annotations map[string]Annotation) []TestResult {
	states := make(map[string]*TestResult)
	for key, ann := range annotations {
		states[key] = &TestResult{
			Name:        ann.Name,
			Package:     ann.Package,
			Status:      "not run",
			Annotations: ann,
		}
	}

	file, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening test output: %v\n", err)
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event testEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil || event.Test == "" {
			continue
		}

		key := event.Package + "." + event.Test
		res, ok := states[key]
		if !ok {
			ann := Annotation{
				Name:     event.Test,
				Package:  event.Package,
				Type:     testType(event.Package),
				Category: "Other",
			}
			if slash := strings.IndexByte(event.Test, '/'); slash > 0 {
				parent := event.Test[:slash]
				if parentAnn, found := annotations[event.Package+"."+parent]; found {
					ann = parentAnn
					ann.Name = event.Test
					ann.Purpose = parentAnn.Purpose + " (Subtest: " + event.Test + ")"
				}
			}
			res = &TestResult{Name: event.Test, Package: event.Package, Annotations: ann}
			states[key] = res
		}

		switch event.Action {
		case "pass", "fail":
			res.Status = event.Action
			res.Elapsed = event.Elapsed
		case "skip":
			res.Status = "skip"
		case "output":
			if res.Status == "fail" || res.Status == "" {
				res.Failure += event.Output
			}
		}
	}

	list := make([]TestResult, 0, len(states))
	for _, v := range states {
		list = append(list, *v)
	}
	return list
}

func filterResults(results []TestResult, includeCats, excludeCats, includeType, excludeType string) []TestResult {
	inCats := splitList(includeCats)
	exCats := splitList(excludeCats)

	kept := results[:0]
	for _, res := range results {
		if len(inCats) > 0 && !contains(inCats, res.Annotations.Category) {
			continue
		}
		if contains(exCats, res.Annotations.Category) {
			continue
		}
		if includeType != "" && !strings.EqualFold(res.Annotations.Type, includeType) {
			continue
		}
		if excludeType != "" && strings.EqualFold(res.Annotations.Type, excludeType) {
			continue
		}
		kept = append(kept, res)
	}
	return kept
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func summarize(results []TestResult) Report {
	report := Report{GeneratedAt: time.Now(), Results: results}
	for _, r := range results {
		report.Total++
		switch r.Status {
		case "pass":
			report.Passed++
		case "fail":
			report.Failed++
		case "skip":
			report.Skipped++
		}
	}
	return report
}

func byCategory(results []TestResult) map[string][]TestResult {
	categories := make(map[string][]TestResult)
	for _, r := range results {
		cat := r.Annotations.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		categories[cat] = append(categories[cat], r)
	}
	return categories
}

func statusIcon(status string) string {
	switch status {
	case "fail":
		return "❌"
	case "skip":
		return "⏭️"
	case "not run":
		return "⚪"
	}
	return "✅"
}

func passRate(r Report) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total) * 100
}

func writeJSON(report Report, path string) {
	data, _ := json.MarshalIndent(report, "", "  ")
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, data, 0644)
}

func writeMarkdown(report Report, path, title string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# LedgerGate %s\n\n", title)
	fmt.Fprintf(&sb, "**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	status := "✅ PASSED"
	if report.Failed > 0 {
		status = "❌ FAILED"
	}
	fmt.Fprintf(&sb, "**Status:** %s\n\n", status)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Total | Passed | Failed | Skipped | Pass Rate |\n")
	sb.WriteString("|-------|--------|--------|---------|-----------|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d | %.1f%% |\n\n",
		report.Total, report.Passed, report.Failed, report.Skipped, passRate(report))

	sb.WriteString("## Test Results by Category\n\n")
	categories := byCategory(report.Results)
	for _, cat := range categoryOrder {
		tests := categories[cat]
		if len(tests) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n", cat)
		sb.WriteString("| ID | Test Name | Status | Purpose | Security |\n")
		sb.WriteString("|----|-----------|--------|---------|----------|\n")
		for _, t := range tests {
			security := t.Annotations.Security
			if security != "" {
				security = "**" + security + "**"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				t.Annotations.TestCaseID, t.Name, statusIcon(t.Status), t.Annotations.Purpose, security)
		}
		sb.WriteString("\n")
	}

	if report.Failed > 0 {
		sb.WriteString("## Failure Details\n\n")
		for _, t := range report.Results {
			if t.Status == "fail" {
				fmt.Fprintf(&sb, "### %s (%s)\n```\n%s\n```\n\n", t.Name, t.Package, t.Failure)
			}
		}
	}

	sb.WriteString("---\n*Report generated by LedgerGate Test Infrastructure*\n")

	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte(sb.String()), 0644)
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"icon": statusIcon,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>LedgerGate - {{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: #f8fafc; color: #1e293b; line-height: 1.5; margin: 0; padding: 2rem; }
.container { max-width: 1000px; margin: 0 auto; background: white; padding: 2rem; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
h1 { margin-top: 0; border-bottom: 2px solid #e2e8f0; padding-bottom: 0.5rem; }
.meta { color: #64748b; margin-bottom: 2rem; }
.badge { display: inline-block; padding: 0.25rem 0.75rem; border-radius: 9999px; font-weight: 600; font-size: 0.875rem; }
.pass { background: #dcfce7; color: #166534; }
.fail { background: #fee2e2; color: #991b1b; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
.card { background: #f8fafc; padding: 1rem; border-radius: 6px; text-align: center; border: 1px solid #e2e8f0; }
.card b { display: block; font-size: 1.5rem; }
.card span { font-size: 0.75rem; text-transform: uppercase; color: #64748b; }
table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
th { text-align: left; background: #f1f5f9; padding: 0.75rem; border-bottom: 2px solid #e2e8f0; }
td { padding: 0.75rem; border-bottom: 1px solid #e2e8f0; font-size: 0.875rem; vertical-align: top; }
.cat { background: #f8fafc; padding: 0.5rem 1rem; margin-top: 2rem; border-left: 4px solid #2563eb; font-weight: 600; }
.failure { background: #0f172a; color: #f8fafc; padding: 1rem; border-radius: 4px; overflow-x: auto; font-family: ui-monospace, monospace; font-size: 0.75rem; margin-bottom: 1rem; }
.security { color: #f59e0b; font-weight: 600; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<div class="meta">Generated at: {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} |
Status: {{if gt .Report.Failed 0}}<span class="badge fail">FAILED</span>{{else}}<span class="badge pass">PASSED</span>{{end}}</div>
<div class="cards">
<div class="card"><b>{{.Report.Total}}</b><span>Total</span></div>
<div class="card"><b style="color:#10b981">{{.Report.Passed}}</b><span>Passed</span></div>
<div class="card"><b style="color:#ef4444">{{.Report.Failed}}</b><span>Failed</span></div>
<div class="card"><b>{{.Report.Skipped}}</b><span>Skipped</span></div>
<div class="card"><b>{{printf "%.1f%%" .Rate}}</b><span>Pass Rate</span></div>
</div>
<h2>Test Results</h2>
{{range .Sections}}
<div class="cat">{{.Name}}</div>
<table>
<thead><tr><th>ID</th><th>Test Name</th><th>Status</th><th>Purpose</th><th>Security</th></tr></thead>
<tbody>
{{range .Tests}}<tr>
<td>{{.Annotations.TestCaseID}}</td>
<td><code>{{.Name}}</code></td>
<td>{{icon .Status}}</td>
<td>{{.Annotations.Purpose}}</td>
<td>{{with .Annotations.Security}}<span class="security">🛡️ {{.}}</span>{{end}}</td>
</tr>{{end}}
</tbody>
</table>
{{end}}
{{if gt .Report.Failed 0}}
<h2>Failure Details</h2>
{{range .Report.Results}}{{if eq .Status "fail"}}
<h3>{{.Name}}</h3>
<div class="failure"><pre>{{.Failure}}</pre></div>
{{end}}{{end}}
{{end}}
<p style="margin-top:3rem;color:#64748b;font-size:0.75rem;text-align:center">&copy; {{.Year}} LedgerGate Project | Generated by Test Infrastructure</p>
</div>
</body>
</html>
`))

func writeHTML(report Report, path, title string) {
	type section struct {
		Name  string
		Tests []TestResult
	}

	categories := byCategory(report.Results)
	var sections []section
	for _, cat := range categoryOrder {
		if tests := categories[cat]; len(tests) > 0 {
			sections = append(sections, section{Name: cat, Tests: tests})
		}
	}

	data := struct {
		Title    string
		Report   Report
		Rate     float64
		Sections []section
		Year     int
	}{
		Title:    title,
		Report:   report,
		Rate:     passRate(report),
		Sections: sections,
		Year:     time.Now().Year(),
	}

	os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("Error creating HTML report: %v\n", err)
		return
	}
	defer f.Close()
	if err := htmlReport.Execute(f, data); err != nil {
		fmt.Printf("Error rendering HTML report: %v\n", err)
	}
}
