// Package logging provides the process-wide structured logger and a small
// set of typed attribute helpers so call sites never hand-roll log keys or
// accidentally log secret values.
package logging

import (
	"log/slog"
	"os"
)

// Common log attribute keys, kept consistent across every package.
const (
	KeyCustomer   = "customer"
	KeyService    = "service"
	KeyStep       = "step"
	KeyNamespace  = "namespace"
	KeyRelease    = "release"
	KeyChart      = "chart"
	KeyCommand    = "command"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
	KeySecretPath = "secret_path"
)

// Status values used consistently in "status" attributes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// New builds the process-wide logger. debug raises the level to Debug;
// otherwise the level is Info. Output always goes to stderr so stdout stays
// free for any data the CLI is asked to print.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// WithCustomer returns a logger annotated with the tenant's customer id.
func WithCustomer(logger *slog.Logger, customer string) *slog.Logger {
	return logger.With(slog.String(KeyCustomer, customer))
}

// WithService returns a logger annotated with the deploying service name.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// Step returns a slog attribute naming a Release Step.
func Step(name string) slog.Attr { return slog.String(KeyStep, name) }

// Namespace returns a slog attribute for a Kubernetes namespace.
func Namespace(ns string) slog.Attr { return slog.String(KeyNamespace, ns) }

// Release returns a slog attribute for a Helm release name.
func Release(name string) slog.Attr { return slog.String(KeyRelease, name) }

// Chart returns a slog attribute for a chart reference.
func Chart(ref string) slog.Attr { return slog.String(KeyChart, ref) }

// Status returns a slog attribute for an operation outcome.
func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

// Err returns a slog attribute for an error, or an empty string if nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SecretPath returns a slog attribute for a secret path. It never carries the
// secret's value, only the addressing path, so it is always safe to log.
func SecretPath(path string) slog.Attr { return slog.String(KeySecretPath, path) }

// RedactedArgv renders a command line for logging, replacing the value that
// follows any of the given flag names with "<redacted>". The command name
// and flag names themselves are never redacted.
func RedactedArgv(argv []string, secretFlags ...string) string {
	secret := make(map[string]bool, len(secretFlags))
	for _, f := range secretFlags {
		secret[f] = true
	}
	out := make([]string, 0, len(argv))
	redactNext := false
	for _, a := range argv {
		if redactNext {
			out = append(out, "<redacted>")
			redactNext = false
			continue
		}
		out = append(out, a)
		if secret[a] {
			redactNext = true
		}
	}
	return joinArgs(out)
}

func joinArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	total := len(args) - 1
	for _, a := range args {
		total += len(a)
	}
	b := make([]byte, 0, total)
	for i, a := range args {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, a...)
	}
	return string(b)
}
