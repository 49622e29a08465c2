package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references and ~\ prefixes are handled too.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	return expandHome(expandEnv(p))
}

func expandHome(p string) string {
	rest, ok := "", false
	switch {
	case p == "~":
		ok = true
	case strings.HasPrefix(p, "~/"):
		rest, ok = p[2:], true
	case runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`):
		rest, ok = p[2:], true
	}
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" {
		return expanded
	}
	return expandWindowsEnv(expanded)
}

// expandWindowsEnv replaces %VAR% with its value. Unknown variables and
// unmatched percent signs are kept as written.
func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] != '%' {
			b.WriteByte(p[i])
			i++
			continue
		}
		end := strings.IndexByte(p[i+1:], '%')
		if end < 0 {
			b.WriteString(p[i:])
			break
		}
		key := p[i+1 : i+1+end]
		if key == "" {
			b.WriteByte('%')
			i++
			continue
		}
		if val, ok := os.LookupEnv(key); ok {
			b.WriteString(val)
		} else {
			b.WriteString("%" + key + "%")
		}
		i += end + 2
	}
	return b.String()
}
