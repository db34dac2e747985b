package combat

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

// Failures abilities and target selection report. None of them are fatal.
var (
	ErrInvalidTarget      = apperrors.New(apperrors.CodeInvalidTarget, "You can't attack that target.")
	ErrNotHere            = apperrors.New(apperrors.CodeInvalidTarget, "They aren't here.")
	ErrSelfTarget         = apperrors.New(apperrors.CodeSelfTarget, "You smack yourself in the face. Ouch!")
	ErrNoPvP              = apperrors.New(apperrors.CodeNoPvP, "You cannot attack other players here.")
	ErrPacifist           = apperrors.New(apperrors.CodePacifist, "They refuse to fight.")
	ErrPassive            = apperrors.New(apperrors.CodePassive, "That skill is passive.")
	ErrNotEnoughResources = apperrors.New(apperrors.CodeNotEnoughResources, "You do not have enough resources.")
)

// NoTargetError asks the caster to pick a target.
func NoTargetError(abilityName string) error {
	return apperrors.New(apperrors.CodeInvalidTarget, fmt.Sprintf("Use %s on whom?", abilityName))
}

// CooldownError reports that an ability, or its cooldown group, is not ready.
func CooldownError(abilityName, groupName string, remaining time.Duration) error {
	if groupName != "" && groupName != abilityName {
		return apperrors.New(apperrors.CodeCooldown,
			fmt.Sprintf("Cannot use %s while %s is on cooldown.", abilityName, groupName))
	}
	return apperrors.New(apperrors.CodeCooldown,
		fmt.Sprintf("%s is on cooldown. %s remaining.", abilityName, humanizeRemaining(remaining)))
}

// humanizeRemaining renders a duration like "5 seconds".
func humanizeRemaining(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	secs := int64(d.Round(time.Second) / time.Second)
	if secs == 1 {
		return "1 second"
	}
	return humanize.Comma(secs) + " seconds"
}
