package lag

import (
	"fmt"
	"regexp"
	"strings"
)

func (s *Service) isGroupAllowed(groupName string) bool {
	isAllowed := false
	for _, regex := range s.allowedGroupIDsExpr {
		if regex.MatchString(groupName) {
			isAllowed = true
			break
		}
	}

	for _, regex := range s.ignoredGroupIDsExpr {
		if regex.MatchString(groupName) {
			isAllowed = false
			break
		}
	}
	return isAllowed
}

// compileRegex compiles expressions wrapped in slashes (e.g. "/^orders-.*/") as regex. Any other input
// is matched literally.
func compileRegex(expr string) (*regexp.Regexp, error) {
	if len(expr) > 1 && strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") {
		substr := expr[1 : len(expr)-1]
		regex, err := regexp.Compile(substr)
		if err != nil {
			return nil, err
		}

		return regex, nil
	}

	return regexp.Compile("^" + regexp.QuoteMeta(expr) + "$")
}

func compileRegexes(expr []string) ([]*regexp.Regexp, error) {
	compiledExpressions := make([]*regexp.Regexp, len(expr))
	for i, exprStr := range expr {
		expr, err := compileRegex(exprStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression string '%v': %w", exprStr, err)
		}
		compiledExpressions[i] = expr
	}

	return compiledExpressions, nil
}
