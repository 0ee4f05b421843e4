package intake

import (
	"strings"

	"go.uber.org/zap"
)

// DomainAllowList restricts which sender domains may submit to the intake
type DomainAllowList struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewDomainAllowList creates an allow-list; an empty list admits every sender
func NewDomainAllowList(domains []string, logger *zap.Logger) *DomainAllowList {
	normalized := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			normalized[domain] = struct{}{}
		}
	}

	if len(normalized) > 0 {
		logger.Info("Initialized intake sender allow-list", zap.Strings("domains", domains))
	}

	return &DomainAllowList{domains: normalized, logger: logger}
}

// Allows reports whether the sender's domain may submit
func (l *DomainAllowList) Allows(from string) bool {
	if len(l.domains) == 0 {
		return true
	}

	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return false
	}
	domain := strings.ToLower(strings.Trim(from[at+1:], "> "))

	if _, ok := l.domains[domain]; ok {
		l.logger.Debug("Sender domain allowed",
			zap.String("domain", domain),
			zap.String("email", from))
		return true
	}
	return false
}
