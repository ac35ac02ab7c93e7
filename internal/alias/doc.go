// Package alias implements the merge/split/break/change-identity
// operations shared by every identity-bearing entity kind (player, event,
// time control, mode, player type). Grounded on identify_person.py and
// identify_event.py, generalised from one function set per kind into one
// generic set operating through model.Kind, since all five kinds carry the
// same alias/identity pair and the same invariants.
package alias
