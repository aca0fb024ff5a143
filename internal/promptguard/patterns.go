package promptguard

import "regexp"

// Layer tags, recorded in truncated pattern identifiers and audit detail.
const (
	layerTokenExtraction  = "TOKEN_EXTRACTION"
	layerSystemLeakage    = "SYSTEM_LEAKAGE"
	layerJailbreak        = "JAILBREAK"
	layerCommandInjection = "COMMAND_INJECTION"
	layerDataExfiltration = "DATA_EXFILTRATION"
	layerUnicode          = "UNICODE_SMUGGLING"
)

// layer is one detection family: a tag, the severity it contributes, and
// its patterns. The scanner evaluates every layer on every call — no
// short-circuit — so an assessment always lists all matched families.
type layer struct {
	tag      string
	level    Level
	patterns []*regexp.Regexp
}

func compile(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// buildLayers returns the five detection layers in evaluation order.
func buildLayers() []layer {
	return []layer{
		{layerTokenExtraction, LevelCritical, compile([]string{
			// direct credential requests
			`(?i)(show|reveal|print|display|output|give|tell|leak|expose)\s*(me\s*)?(the\s*)?(your\s*)?token`,
			`(?i)what\s*is\s*(the\s*)?(your\s*)?token`,
			// environment extraction
			`(?i)print\s*env`,
			`(?i)printenv`,
			`(?i)echo\s*\$`,
			`(?i)(show|list|get|dump)\s*(the\s*)?environment`,
			`(?i)os\.environ`,
			`(?i)process\.env`,
			`(?i)getenv\s*\(`,
			// config-file extraction
			`(?i)(read|cat|show|print|type|open)\s*\.env`,
			`(?i)display\s*config`,
			// credential vocabulary
			`(?i)api\s*key`,
			`(?i)secret\s*key`,
			`(?i)bot\s*token`,
			`(?i)access\s*token`,
			`(?i)password`,
			`(?i)credential`,
			`(?i)(ssh|private)\s*key`,
		})},
		{layerSystemLeakage, LevelBlocked, compile([]string{
			`(?i)(ignore|disregard|forget)\s*(all\s*)?(previous|all|prior)\s*instructions`,
			`(?i)what\s*(are|were)\s*(your|the)\s*instructions`,
			`(?i)(show|reveal|print|repeat)\s*(me\s*)?(your\s*)?(system\s*prompt|initial\s*instructions)`,
			`(?i)what\s*is\s*your\s*system\s*prompt`,
			`(?i)(original|first)\s*instructions?`,
			`(?i)(tell\s*me|reveal)\s*your\s*rules`,
			`(?i)bypass\s*restrictions`,
			`(?i)override\s*safety`,
		})},
		{layerJailbreak, LevelBlocked, compile([]string{
			`(?i)pretend\s*(you\s*are|to\s*be)`,
			`(?i)act\s*as\s*if`,
			`(?i)roleplay\s*as`,
			`(?i)you\s*are\s*now\s*(?:a|an|in|the|free|unrestricted|unfiltered)\b`,
			`(?i)dan\s+mode`,
			`(?i)developer\s*mode`,
			`(?i)unrestricted\s*mode`,
			`(?i)no\s*(restrictions|limits)`,
			`(?i)without\s*safety`,
			`(?i)(disable|turn\s*off)\s*(filters|safety)`,
			`(?i)hypothetically`,
			`(?i)as\s*a\s*thought\s*experiment`,
		})},
		{layerCommandInjection, LevelCritical, compile([]string{
			// shell chaining into destructive commands
			`(?i)[;|]\s*rm\s`,
			`(?i)&&\s*rm\s`,
			`(?i);\s*(del|format|shutdown|reboot)\b`,
			`\$\([^)]*\)`,
			"`[^`]+`",
			// destructive filesystem verbs
			`(?i)(delete|remove|erase|destroy|wipe)\s*(all|every|everything|\*)`,
			`(?i)format\s*(the\s*)?(drive|disk|c:)`,
			`(?i)wipe\s*(the\s*)?(drive|disk|system)`,
			// network tools
			`(?i)\bcurl\s+`,
			`(?i)\bwget\s+`,
			`(?i)\bnc\s+-`,
			`(?i)netcat`,
			// code-execution primitives
			`(?i)\b(eval|exec|compile|popen)\s*\(`,
			`(?i)__import__`,
			`(?i)\bsubprocess\b`,
			`(?i)os\.system`,
		})},
		{layerDataExfiltration, LevelBlocked, compile([]string{
			// sensitive file names and extensions
			`(?i)\.env\b`,
			`(?i)\.pem\b`,
			`(?i)\.key\b`,
			`(?i)id_rsa`,
			`(?i)id_ed25519`,
			`(?i)\.ssh/`,
			`(?i)known_hosts`,
			`(?i)authorized_keys`,
			`(?i)\.aws/`,
			`(?i)secrets?\.(json|ya?ml|xml)`,
			`(?i)\.git/config`,
			`(?i)\.gitconfig`,
			`(?i)\.npmrc`,
			`(?i)\.pypirc`,
			// database dumps
			`(?i)\.sqlite`,
			`(?i)\.db\b`,
			`(?i)(dump|export)\s*(the\s*)?database`,
			// outbound transfer phrasing
			`(?i)send\s*(it\s*|this\s*|them\s*)?(to|via)\s*(http|email|server|webhook)`,
			`(?i)upload\s*(it\s*|this\s*|them\s*)?(to|via)`,
			`(?i)post\s*(it\s*|this\s*|them\s*)?(to|via)\s*(http|api|server)`,
			`(?i)exfiltrat`,
			`(?i)transfer\s*(out|to\s*external)`,
		})},
	}
}

// sensitiveFileNames is the explicit deny list used by PathIsSafe on top of
// the exfiltration layer. It mirrors the path sandbox's deny rules so a
// file-read request is gated the same way whether it arrives as a path
// operation or embedded in a prompt.
var sensitiveFileNames = []string{
	".env", "env.local", ".env.production",
	"id_rsa", "id_ed25519", "id_ecdsa",
	".pem", ".key", ".p12", ".pfx",
	"credentials", "secrets.json", "secrets.yaml",
	".git/config", ".gitconfig",
	".aws/credentials", ".azure/credentials",
	".npmrc", ".pypirc", ".docker/config.json",
}
