package filter

// Resource-type tags used across the tool catalog.
const (
	TagWorkspace          = "workspace"
	TagRun                = "run"
	TagOrganization       = "organization"
	TagProject            = "project"
	TagVariable           = "variable"
	TagVariableSet        = "variable-set"
	TagPlan               = "plan"
	TagApply              = "apply"
	TagStateVersion       = "state-version"
	TagStateVersionOutput = "state-version-output"
	TagCostEstimate       = "cost-estimate"
	TagAssessmentResult   = "assessment-result"
	TagAccount            = "account"
	TagGeneric            = "generic"
)

// Envelope handling shared by every policy: hypermedia links and metadata
// are dropped except pagination essentials, and resource identity is
// always preserved.
var (
	baseDrop = []string{"links", "meta"}

	baseKeep = []string{
		"id",
		"type",
		"links.next",
		"links.prev",
		"links.first",
		"links.last",
		"meta.pagination.current-page",
		"meta.pagination.total-pages",
		"meta.pagination.total-count",
		"meta.status-counts.total",
	}
)

func policy(drop, keep []string, nested map[string]string) Policy {
	return Policy{
		Drop:       append(append([]string{}, baseDrop...), drop...),
		AlwaysKeep: append(append([]string{}, baseKeep...), keep...),
		Nested:     nested,
	}
}

// Defaults returns the built-in policy set. Filtering is conservative:
// only statistical aggregations, internal system fields, and hypermedia
// noise are removed, and audit tracking fields (timestamps, permissions)
// are pinned in always_keep.
func Defaults() map[string]Policy {
	return map[string]Policy{
		TagWorkspace: policy(
			[]string{
				"data.attributes.apply-duration-average",
				"data.attributes.plan-duration-average",
				"data.attributes.policy-check-failures",
				"data.attributes.run-failures",
				"data.attributes.workspace-kpis-runs-count",
				"data.attributes.unarchived-workspace-change-requests-count",
			},
			[]string{
				"data.attributes.name",
				"data.attributes.created-at",
				"data.attributes.permissions",
			},
			map[string]string{
				"organization":                  TagOrganization,
				"project":                       TagProject,
				"current-run":                   TagRun,
				"current-state-version":         TagStateVersion,
				"current-configuration-version": TagGeneric,
			},
		),
		TagRun: policy(
			nil,
			[]string{
				"data.attributes.created-at",
				"data.attributes.status-timestamps",
				"data.attributes.permissions",
				"data.attributes.actions",
				"data.attributes.source",
			},
			map[string]string{
				"workspace":     TagWorkspace,
				"plan":          TagPlan,
				"apply":         TagApply,
				"cost-estimate": TagCostEstimate,
			},
		),
		TagOrganization: policy(
			[]string{
				"data.attributes.fair-run-queuing-enabled",
				"data.attributes.send-passing-statuses-for-untriggered-speculative-plans",
			},
			[]string{
				"data.attributes.created-at",
				"data.attributes.saml-enabled",
				"data.attributes.two-factor-conformant",
				"data.attributes.permissions",
			},
			nil,
		),
		TagProject: policy(
			nil,
			[]string{
				"data.attributes.created-at",
				"data.attributes.updated-at",
			},
			map[string]string{"organization": TagOrganization},
		),
		TagVariable: policy(
			nil,
			[]string{
				"data.attributes.version-id",
				"data.attributes.created-at",
				"data.attributes.category",
				"data.attributes.sensitive",
			},
			nil,
		),
		TagVariableSet: policy(
			nil,
			[]string{"data.attributes.name"},
			map[string]string{
				"vars":       TagVariable,
				"workspaces": TagWorkspace,
				"projects":   TagProject,
			},
		),
		TagPlan: policy(
			[]string{
				"data.attributes.resource-drift",
				"data.attributes.execution-details",
			},
			[]string{
				"data.attributes.status-timestamps",
				"data.attributes.permissions",
			},
			map[string]string{
				"run":            TagRun,
				"state-versions": TagStateVersion,
			},
		),
		TagApply: policy(
			[]string{"data.attributes.execution-details"},
			[]string{
				"data.attributes.status-timestamps",
				"data.attributes.permissions",
			},
			map[string]string{
				"run":            TagRun,
				"state-versions": TagStateVersion,
			},
		),
		TagStateVersion: policy(
			[]string{
				"data.attributes.vcs-commit-sha",
				"data.attributes.vcs-commit-url",
				"data.attributes.hosted-state-download-url",
				"data.attributes.hosted-json-state-download-url",
				"data.attributes.hosted-state-upload-url",
			},
			[]string{
				"data.attributes.created-at",
				"data.attributes.serial",
			},
			map[string]string{
				"workspace": TagWorkspace,
				"run":       TagRun,
				"outputs":   TagStateVersionOutput,
			},
		),
		TagStateVersionOutput: policy(
			nil,
			[]string{
				"data.attributes.name",
				"data.attributes.sensitive",
				"data.attributes.type",
			},
			nil,
		),
		TagCostEstimate: policy(
			[]string{"data.attributes.resources-count"},
			[]string{"data.attributes.status-timestamps"},
			map[string]string{"run": TagRun},
		),
		TagAssessmentResult: policy(
			nil,
			[]string{
				"data.attributes.created-at",
				"data.attributes.updated-at",
			},
			map[string]string{"workspace": TagWorkspace},
		),
		TagAccount: policy(
			[]string{
				"data.attributes.password",
				"data.attributes.avatar-url",
			},
			[]string{
				"data.attributes.username",
				"data.attributes.email",
				"data.attributes.is-sudo",
				"data.attributes.is-site-admin",
				"data.attributes.auth-method",
			},
			nil,
		),
		TagGeneric: policy(nil, nil, nil),
	}
}
