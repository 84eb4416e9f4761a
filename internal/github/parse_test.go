package github

import "testing"

func TestParseRepoURLVariants(t *testing.T) {
	cases := []struct {
		name  string
		input string
		owner string
		repo  string
	}{
		{"https url", "https://github.com/octocat/hello-world", "octocat", "hello-world"},
		{"git suffix", "https://github.com/octocat/hello-world.git", "octocat", "hello-world"},
		{"trailing path", "https://github.com/octocat/hello-world/tree/main/src", "octocat", "hello-world"},
		{"no scheme", "github.com/octocat/hello-world", "octocat", "hello-world"},
		{"bare shorthand", "octocat/hello-world", "octocat", "hello-world"},
		{"surrounding whitespace", "  octocat/hello-world  ", "octocat", "hello-world"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			owner, name, err := ParseRepoURL(tc.input)
			if err != nil {
				t.Fatalf("ParseRepoURL(%q): %v", tc.input, err)
			}
			if owner != tc.owner || name != tc.repo {
				t.Fatalf("ParseRepoURL(%q) = %q/%q, want %q/%q", tc.input, owner, name, tc.owner, tc.repo)
			}
		})
	}
}

func TestParseRepoURLRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "just-a-name", "https://example.com/foo"} {
		if _, _, err := ParseRepoURL(input); err == nil {
			t.Fatalf("ParseRepoURL(%q): expected error", input)
		}
	}
}

func TestRepoURLRoundTrip(t *testing.T) {
	pairs := []struct{ owner, name string }{
		{"octocat", "hello-world"},
		{"some-org", "repo.with.dots"},
		{"a", "b"},
		{"CamelOwner", "CamelRepo"},
	}
	for _, p := range pairs {
		url := RepoURL(p.owner, p.name)
		owner, name, err := ParseRepoURL(url)
		if err != nil {
			t.Fatalf("ParseRepoURL(RepoURL(%q, %q)): %v", p.owner, p.name, err)
		}
		if owner != p.owner || name != p.name {
			t.Fatalf("round trip %q/%q -> %q -> %q/%q", p.owner, p.name, url, owner, name)
		}
	}
}

func TestDefaultBranchPreference(t *testing.T) {
	cases := []struct {
		name     string
		branches []Branch
		want     string
	}{
		{"prefers main", []Branch{{Name: "dev"}, {Name: "master"}, {Name: "main"}}, "main"},
		{"falls back to master", []Branch{{Name: "dev"}, {Name: "master"}}, "master"},
		{"first available", []Branch{{Name: "trunk"}, {Name: "dev"}}, "trunk"},
		{"empty list", nil, "main"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultBranch(tc.branches); got != tc.want {
				t.Fatalf("DefaultBranch = %q, want %q", got, tc.want)
			}
		})
	}
}
