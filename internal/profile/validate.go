package profile

import (
	"fmt"
	"regexp"
	"strings"
)

var nameRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName checks that name conforms to profile naming rules. Names
// become directory names under ~/.adminterm/profiles and may not start
// with a hyphen, so they never read as a flag.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("invalid profile name %q: must match ^[a-z0-9_-]{1,64}$", name)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("invalid profile name %q: must not start with '-'", name)
	}
	return nil
}
