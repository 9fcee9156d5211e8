// Package stoplight anonymizes sensitive fields of records immediately
// before they are persisted.
//
// Each record type declares an ordered list of rules. A rule names a field,
// a strategy, and the strategy's arguments. A persistence host calls the
// Anonymizer synchronously before every save; the Anonymizer rewrites the
// declared fields in place and any error aborts the save.
//
// # Strategies
//
//	StrategySuppress        - replace a string with "<CONFIDENTIAL>"
//	StrategyPartialSuppress - mask a string against a same-length pattern
//	StrategyMock            - replace with generated data (MockAddress, MockName, MockDatetime)
//	StrategyVary            - add Gaussian noise to numbers, dates, and datetimes
//
// PartialSuppress keeps every character whose pattern position is not '*':
//
//	"012 345 6789" with "*** *** XXXX" -> "*** *** 6789"
//
// Vary takes one standard deviation. Dates and datetimes move by that many
// days; integers round half away from zero.
//
// # Declaring Rules
//
// In code:
//
//	a := stoplight.New()
//	stoplight.Declare[Person](a,
//	    stoplight.VaryRule("Age", 15),
//	    stoplight.PartialSuppressRule("Phone", "*** *** XXXX"),
//	    stoplight.SuppressRule("Name"),
//	    stoplight.MockRule("Address", stoplight.MockAddress),
//	)
//
// With struct tags, read by DeclareTagged:
//
//	type Person struct {
//	    ID    int64  `bun:"id,pk"`
//	    Name  string `anonymize:"suppress"`
//	    Age   int    `anonymize:"vary,15"`
//	}
//
// From a YAML file, with LoadConfig and Anonymizer.Configure.
//
// A type may also implement Anonymous to carry its own mapping.
//
// Fields are named by Go field name or by column name. Rules may never
// target the primary key, which is found from WithPrimaryKey, the
// PrimaryKeyer interface, a `bun:",pk"` tag, or a field named ID.
//
// # Hosts
//
// A Host is the persistence layer: it reports readiness, lists its record
// types, and calls registered Interceptors before writes.
//
//	err := a.Init(ctx, host) // every host model with a mapping
//
// Init without explicit models returns ErrNotReady if the host has not
// finished initializing. Package bunhost provides a Host for bun.
//
// # Errors
//
// Failures wrap one of ErrInvalidRule, ErrMissingAttribute,
// ErrForbiddenTarget, ErrTypeKind, ErrValueKind, ErrNotReady, or
// ErrInvalidRecord. Use errors.Is to match them.
//
// # Events
//
// The Anonymizer emits capitan signals (SignalDeclared,
// SignalHookRegistered, SignalAnonymizeStart, SignalAnonymizeComplete).
package stoplight
