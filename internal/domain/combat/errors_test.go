package combat

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

func TestCooldownMessages(t *testing.T) {
	err := CooldownError("Fireball", "", 4600*time.Millisecond)
	if got := apperrors.UserMessage(err); got != "Fireball is on cooldown. 5 seconds remaining." {
		t.Errorf("unexpected message %q", got)
	}

	err = CooldownError("Fireball", "Flamestrike", time.Second)
	if got := apperrors.UserMessage(err); got != "Cannot use Fireball while Flamestrike is on cooldown." {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, apperrors.New(apperrors.CodeCooldown, "")) {
		t.Error("Expected cooldown code")
	}
}

func TestSourceDiffers(t *testing.T) {
	if SourceDiffers(nil, "a1") {
		t.Error("Expected nil source not to differ")
	}
}
