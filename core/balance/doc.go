// Package balance computes the daily soil mineral nitrogen balance of a crop
// rotation and schedules the fertiliser needed to keep soil N above the
// field trigger.
//
// The stages run in a fixed order, each taking the trajectory it refines and
// returning it:
//
//	Initial -> TestCorrection -> ApplyExistingFertiliser -> DetermineFertRequirements
//
// Engine.Run wires them together for one simulation run. All series are
// keyed by UTC-midnight days and must cover every date the stages look up;
// a missing day surfaces as series.ErrMissingDate.
package balance
