// Package runner drives the execution of an expanded trial sequence.
//
// The expander guarantees that trials are independent and immutable, so the
// runner is free to process them with a pool of concurrent workers. What
// "executing a trial" means is pluggable through TrialFunc: tests use
// in-process stubs, the CLI can delegate each trial to an external command
// that performs the actual training and evaluation.
//
// The runner owns the search loop's resource limits: the trial cap
// (n_trials) and the overall deadline (timeout) from the study's search
// settings. Trials that cannot start before the deadline are recorded as
// skipped. A failing trial is recorded and does not stop the study.
package runner
