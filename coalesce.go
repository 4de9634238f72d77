package wstate

// CoalesceWidgetStates merges an older wire snapshot into a newer one and
// returns the result.
//
// For most value kinds the latest snapshot simply wins. Trigger values
// are the exception: a trigger is an edge (a press event), not a level,
// so a true trigger in the old snapshot must not be swallowed when the
// client's resend races a rerun. Any old trigger that is true overwrites
// the corresponding new entry, but only when that entry is also
// trigger-kind; a widget that used to be a button and no longer is must
// not inherit a stale press. Entries present only in the old snapshot and
// not trigger-true are dropped.
func CoalesceWidgetStates(old, new WidgetStates) WidgetStates {
	byID := make(map[string]WidgetState, len(new.Widgets))
	order := make([]string, 0, len(new.Widgets))
	for _, state := range new.Widgets {
		if _, ok := byID[state.ID]; !ok {
			order = append(order, state.ID)
		}
		byID[state.ID] = state
	}

	for _, oldState := range old.Widgets {
		if oldState.Kind() != KindTrigger || oldState.Trigger == nil || !*oldState.Trigger {
			continue
		}
		newState, ok := byID[oldState.ID]
		if !ok {
			byID[oldState.ID] = oldState
			order = append(order, oldState.ID)
			continue
		}
		if newState.Kind() == KindTrigger {
			byID[oldState.ID] = oldState
		}
	}

	coalesced := WidgetStates{Widgets: make([]WidgetState, 0, len(order))}
	for _, id := range order {
		coalesced.Widgets = append(coalesced.Widgets, byID[id])
	}
	return coalesced.Clone()
}
