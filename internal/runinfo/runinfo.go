// Package runinfo collects CI metadata recorded alongside simulation cases.
package runinfo

import (
	"os"
	"regexp"
	"strings"
)

var githubPullRefPattern = regexp.MustCompile(`^refs/pull/([0-9]+)/`)

// Info describes where a simulation ran.
type Info struct {
	CI          bool   `json:"ci,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Repository  string `json:"repository,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	PullRequest string `json:"pull_request,omitempty"`
	BuildURL    string `json:"build_url,omitempty"`
}

// overridePrefix names the variables that take precedence over detection.
const overridePrefix = "SQLSIM_CI_"

// FromEnv builds run metadata from environment variables. It returns nil
// outside CI when nothing is known.
func FromEnv() *Info {
	info := detect()
	applyOverrides(&info)
	info.Branch = strings.TrimPrefix(strings.TrimPrefix(info.Branch, "refs/heads/"), "origin/")
	if info.PullRequest == "" {
		info.PullRequest = pullRequestFromRef(env("GITHUB_REF"))
	}
	if info.CI && info.Provider == "" {
		info.Provider = "generic"
	}
	if info == (Info{}) {
		return nil
	}
	return &info
}

func detect() Info {
	if isTruthy(env("GITHUB_ACTIONS")) {
		info := Info{
			CI:          true,
			Provider:    "github_actions",
			Repository:  env("GITHUB_REPOSITORY"),
			Branch:      envFirst("GITHUB_HEAD_REF", "GITHUB_REF_NAME"),
			Commit:      env("GITHUB_SHA"),
			RunID:       env("GITHUB_RUN_ID"),
			PullRequest: env("GITHUB_PR_NUMBER"),
		}
		if info.Repository != "" && info.RunID != "" {
			server := envFirst("GITHUB_SERVER_URL")
			if server == "" {
				server = "https://github.com"
			}
			info.BuildURL = strings.TrimRight(server, "/") + "/" + info.Repository + "/actions/runs/" + info.RunID
		}
		return info
	}
	info := Info{
		Repository: envFirst("CI_PROJECT_PATH", "BUILD_REPOSITORY_NAME"),
		Branch:     envFirst("CI_COMMIT_REF_NAME", "BRANCH_NAME", "GIT_BRANCH"),
		Commit:     envFirst("CI_COMMIT_SHA", "GIT_COMMIT"),
		RunID:      envFirst("CI_PIPELINE_ID", "BUILD_ID"),
		BuildURL:   envFirst("CI_JOB_URL", "BUILD_URL"),
	}
	switch {
	case isTruthy(env("GITLAB_CI")):
		info.CI, info.Provider = true, "gitlab_ci"
	case isTruthy(env("BUILDKITE")):
		info.CI, info.Provider = true, "buildkite"
	case env("JENKINS_URL") != "":
		info.CI, info.Provider = true, "jenkins"
	case isTruthy(env("CI")):
		info.CI = true
	}
	return info
}

// applyOverrides applies SQLSIM_CI and SQLSIM_CI_* variables. Any field
// override implies CI unless SQLSIM_CI is explicitly false.
func applyOverrides(info *Info) {
	fields := map[string]*string{
		"PROVIDER":     &info.Provider,
		"REPOSITORY":   &info.Repository,
		"BRANCH":       &info.Branch,
		"COMMIT":       &info.Commit,
		"RUN_ID":       &info.RunID,
		"PULL_REQUEST": &info.PullRequest,
		"BUILD_URL":    &info.BuildURL,
	}
	overridden := false
	for suffix, dst := range fields {
		if v := env(overridePrefix + suffix); v != "" {
			*dst = v
			overridden = true
		}
	}
	if v := env("SQLSIM_CI"); v != "" {
		info.CI = isTruthy(v)
		return
	}
	if overridden {
		info.CI = true
	}
}

func pullRequestFromRef(ref string) string {
	if m := githubPullRefPattern.FindStringSubmatch(strings.TrimSpace(ref)); len(m) > 1 {
		return m[1]
	}
	return ""
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envFirst(keys ...string) string {
	for _, key := range keys {
		if value := env(key); value != "" {
			return value
		}
	}
	return ""
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
