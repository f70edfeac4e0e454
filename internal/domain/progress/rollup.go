package progress

import "github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"

// Rollup derives a problem status from the statuses of all its cards,
// including the implicit "new" status of cards the user never graded.
//
// Rules, in order:
//   - no cards at all: the problem is "new"
//   - any card not perfect (including "new"): the problem is "ongoing"
//   - otherwise every card is perfect: the problem is "completed"
//
// An unknown status in the input is an error rather than a silent bucket,
// so a corrupted row can never masquerade as study progress.
func Rollup(statuses []CardStatus) (ProblemStatus, error) {
	if len(statuses) == 0 {
		return ProblemStatusNew, nil
	}

	allPerfect := true
	for _, s := range statuses {
		if !s.IsValid() {
			return "", shared.WrapError("progress", "Rollup", shared.ErrInvalidInput,
				"card status "+string(s)+" is not recognized", shared.ErrUnknownCardStatus)
		}
		if s != CardStatusPerfect {
			allPerfect = false
		}
	}

	if allPerfect {
		return ProblemStatusCompleted, nil
	}
	return ProblemStatusOngoing, nil
}

// RollupWithDeclared derives a problem status when only graded cards are
// known and the problem declares its total card count. Cards without a
// progress row count as "new".
func RollupWithDeclared(graded []CardStatus, declaredCards int) (ProblemStatus, error) {
	if declaredCards < len(graded) {
		return "", shared.NewDomainError("progress", "Rollup", shared.ErrValueOutOfRange,
			"graded card count exceeds the problem's declared card count")
	}

	statuses := make([]CardStatus, 0, declaredCards)
	statuses = append(statuses, graded...)
	for i := len(graded); i < declaredCards; i++ {
		statuses = append(statuses, CardStatusNew)
	}
	return Rollup(statuses)
}
