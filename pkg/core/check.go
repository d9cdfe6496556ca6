package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/citizenwiki/locmerge/pkg/ruleconfig"
	"github.com/citizenwiki/locmerge/pkg/rules"
	"github.com/citizenwiki/locmerge/pkg/variant"
)

// Check reconciles without writing anything. Integrity failures and rule
// problems are reported rather than returned; the error covers inputs that
// cannot be read at all.
func Check(ctx context.Context, opts Options) (*CheckReport, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	report := &CheckReport{RunID: opts.runID()}
	logger := logging.WithRun(logging.GetLogger("core.check"), report.RunID)

	m, err := loadAndReconcile(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	report.Inputs = m.inputs
	report.Integrity = reconcile.VerifyIntegrity(m.ref, m.result.Records)

	env, err := loadRules(opts)
	if err != nil {
		return nil, err
	}
	defer env.close()

	report.RuleWarnings, report.RuleErrors = classifyDiagnostics(diagnoseRules(env.store))
	for _, name := range opts.variants() {
		variants, err := buildVariants(opts, env, []string{name})
		if err != nil {
			report.RuleErrors = append(report.RuleErrors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		variant.CloseAll(variants)
	}

	logger.Info().
		Bool("ok", report.OK()).
		Int("warnings", len(report.RuleWarnings)).
		Int("errors", len(report.RuleErrors)).
		Msg("Check completed")
	return report, nil
}

// diagnoseRules collects the resolution problems of every rule set in the store
func diagnoseRules(store *ruleconfig.Store) []error {
	lookup := store.Lookup()
	var problems []error

	for _, name := range store.TranslationRuleNames() {
		tr, _ := store.TranslationRule(name)
		facets := []*ruleconfig.Document{tr.Key, tr.Original, tr.Translation}
		for _, doc := range tr.Ext {
			facets = append(facets, doc)
		}
		for _, doc := range facets {
			problems = append(problems, rules.Diagnose(lookup, doc.Rules(), name)...)
		}
	}
	for _, name := range store.ImportNames() {
		r, _ := store.MatchRules(name)
		problems = append(problems, rules.Diagnose(lookup, r, name)...)
	}
	return problems
}

// classifyDiagnostics splits problems into recoverable warnings and fatal
// errors. Both lists are sorted and free of duplicates.
func classifyDiagnostics(problems []error) (warnings, failures []string) {
	seen := make(map[string]bool)
	for _, err := range problems {
		msg := err.Error()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		if errors.IsFatal(err) {
			failures = append(failures, msg)
		} else {
			warnings = append(warnings, msg)
		}
	}
	sort.Strings(warnings)
	sort.Strings(failures)
	return warnings, failures
}
