// Package cli handles command-line argument parsing for the hpogrid binary.
package cli
