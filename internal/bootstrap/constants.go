package bootstrap

const DefaultDir = "."

const (
	readmeTemplateFile = "README_TEMPLATE.md"
	readmeFile         = "README.md"
	gitignoreFile      = ".gitignore"
	gitignoreMarker    = "# Agent bootstrap defaults"
	projectPlaceholder = "<Project Name>"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// RequiredDirs lists the directories every bootstrapped repo carries, in
// creation order.
func RequiredDirs() []string {
	return []string{".tmp", "execution", "directives", ".agent"}
}

// CanonicalFiles lists the governance files pulled from the template source,
// in fetch order.
func CanonicalFiles() []RemoteFile {
	return []RemoteFile{
		sameFile("AGENTS.md"),
		sameFile(readmeTemplateFile),
		sameFile("directives/DIRECTIVE_TEMPLATE.md"),
		sameFile("directives/project_init.md"),
		sameFile(".agent/codex_system_prompt.md"),
	}
}

// GitignoreEntries are the literal lines patchGitignore guarantees.
func GitignoreEntries() []string {
	return []string{".env", ".tmp/", ".tmp", "token.json", "credentials.json"}
}

func sameFile(p string) RemoteFile {
	return RemoteFile{RemotePath: p, LocalPath: p}
}
