// Package pss generates LTE primary synchronization signals and finds them
// in sampled baseband.
//
// [Sequence] returns the frequency-domain Zadoff-Chu sequence for one of the
// three N_id_2 values and [TimeDomain] maps it onto an OFDM symbol. A
// [Detector] searches a frame in two passes: a coarse search over all three
// hypotheses at a decimated rate, followed by a full-rate refinement around
// the coarse estimate using the identified hypothesis only. Both passes use
// [conv.Engine] filter banks indexed by N_id_2.
package pss
