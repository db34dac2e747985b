package errors

// Code is a machine-readable error code.
type Code string

const (
	// Invalid actions: user facing, never fatal.
	CodeInvalidTarget      Code = "INVALID_TARGET"
	CodeSelfTarget         Code = "SELF_TARGET"
	CodeNoPvP              Code = "NO_PVP"
	CodePacifist           Code = "PACIFIST"
	CodeCooldown           Code = "COOLDOWN"
	CodePassive            Code = "PASSIVE"
	CodeNotEnoughResources Code = "NOT_ENOUGH_RESOURCES"
	CodeUnknownCommand     Code = "UNKNOWN_COMMAND"
	CodeNoExit             Code = "NO_EXIT"
	CodeDoorClosed         Code = "DOOR_CLOSED"
	CodeDoorLocked         Code = "DOOR_LOCKED"
	CodeInCombat           Code = "IN_COMBAT"
	CodeClassRestricted    Code = "CLASS_RESTRICTED"
	CodeNotLearned         Code = "NOT_LEARNED"

	// Structural violations: logged, the operation is aborted for one actor.
	CodeStructural Code = "STRUCTURAL"

	// Collaborator failures: persistence or lookup.
	CodeCollaborator Code = "COLLABORATOR"

	// Anything unclassified.
	CodeInternal Code = "INTERNAL"
)

// Class groups codes into the four handling categories.
type Class int

const (
	ClassInvalidAction Class = iota
	ClassStructural
	ClassCollaborator
	ClassUnexpected
)

// Class returns the handling category of the code.
func (c Code) Class() Class {
	switch c {
	case CodeStructural:
		return ClassStructural
	case CodeCollaborator:
		return ClassCollaborator
	case CodeInternal, "":
		return ClassUnexpected
	default:
		return ClassInvalidAction
	}
}
