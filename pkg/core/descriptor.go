package core

import "strings"

// Capability is the tri-state support marker for one unified operation.
type Capability int

// Capability constants.
const (
	// CapabilityUnknown means support has not been assessed.
	CapabilityUnknown Capability = iota
	// CapabilitySupported means the adapter implements the operation natively.
	CapabilitySupported
	// CapabilityEmulated means the adapter synthesizes the operation from
	// other endpoints.
	CapabilityEmulated
	// CapabilityUnsupported means the venue genuinely lacks the operation.
	CapabilityUnsupported
)

// String returns the string representation of the capability.
func (c Capability) String() string {
	return [...]string{"unknown", "supported", "emulated", "unsupported"}[c]
}

// Route addresses one endpoint in the descriptor's route table.
type Route struct {
	// Category groups endpoints by venue product line (e.g. "spot", "swap").
	Category string
	// Version is the endpoint's API version segment (e.g. "v1", "v2").
	Version string
	// Access is "public" or "private".
	Access string
	// Method is the HTTP verb.
	Method string
	// Path is the endpoint path relative to category/version.
	Path string
}

// Access constants for Route.
const (
	AccessPublic  = "public"
	AccessPrivate = "private"
)

// FeeSchedule declares maker/taker rates for one market type, as decimal
// strings to keep the descriptor free of float literals.
type FeeSchedule struct {
	Maker string
	Taker string
	// Percentage is true when the rates are fractions of traded value.
	Percentage bool
	// TierBased is true when the published rates are only the top tier.
	TierBased bool
}

// DescriptorOptions carries the adapter-level defaults the venue convention
// requires. The struct is set once at construction and never mutated.
type DescriptorOptions struct {
	// DefaultMarketType selects spot or swap when a call does not say.
	DefaultMarketType MarketType
	// RecvWindowMS is the replay-tolerance window sent with signed requests.
	RecvWindowMS int64
	// BrokerTag is the referral id injected into generated client order ids
	// and broker headers.
	BrokerTag string
}

// ExceptionTable maps venue error codes and messages to the shared taxonomy.
// Exact matches (on code or full message) always win over broad substring
// matches.
type ExceptionTable struct {
	// Exact maps a venue code or complete message to an error kind.
	Exact map[string]ErrorType
	// Broad maps a message substring to an error kind.
	Broad map[string]ErrorType
}

// Classify resolves code and message against the table. Precedence: exact
// message, exact code, broad substring, then ErrorTypeUnknown so an
// unrecognized non-zero code still surfaces as a generic exchange error.
func (t ExceptionTable) Classify(code, message string) ErrorType {
	if message != "" {
		if kind, ok := t.Exact[message]; ok {
			return kind
		}
	}
	if code != "" {
		if kind, ok := t.Exact[code]; ok {
			return kind
		}
	}
	if message != "" {
		for needle, kind := range t.Broad {
			if strings.Contains(message, needle) {
				return kind
			}
		}
	}
	return ErrorTypeUnknown
}

// Descriptor is the static capability declaration of one exchange adapter,
// consumed at construction time. Pure data; behavior lives in the protocol.
type Descriptor struct {
	// ID is the lowercase exchange identifier (e.g. "bingx").
	ID string
	// Name is the venue's display name.
	Name string
	// Countries lists ISO country codes the venue operates from.
	Countries []string
	// RateLimitMS is the venue's global rate-limit unit: the cost in
	// milliseconds of one weight unit.
	RateLimitMS int
	// Routes is the endpoint table keyed
	// category -> version -> access -> verb -> path -> weight.
	Routes map[string]map[string]map[string]map[string]map[string]int
	// Fees declares the fee schedule per market type.
	Fees map[MarketType]FeeSchedule
	// Has enumerates support for every unified operation.
	Has map[Operation]Capability
	// Options are the adapter-level defaults.
	Options DescriptorOptions
	// Exceptions maps venue errors to the shared taxonomy.
	Exceptions ExceptionTable
}

// Weight resolves a route against the table and returns its rate-limit
// weight. The second result is false for undeclared routes, which request
// builders treat as a programming error.
func (d *Descriptor) Weight(r Route) (int, bool) {
	versions, ok := d.Routes[r.Category]
	if !ok {
		return 0, false
	}
	accesses, ok := versions[r.Version]
	if !ok {
		return 0, false
	}
	verbs, ok := accesses[r.Access]
	if !ok {
		return 0, false
	}
	paths, ok := verbs[r.Method]
	if !ok {
		return 0, false
	}
	weight, ok := paths[r.Path]
	return weight, ok
}

// Supports reports whether the descriptor declares native or emulated support
// for the operation.
func (d *Descriptor) Supports(op Operation) bool {
	c := d.Has[op]
	return c == CapabilitySupported || c == CapabilityEmulated
}

// DeclaredRoutes flattens the route table. Used by capability tests to assert
// the builders and the table agree.
func (d *Descriptor) DeclaredRoutes() []Route {
	var routes []Route
	for category, versions := range d.Routes {
		for version, accesses := range versions {
			for access, verbs := range accesses {
				for method, paths := range verbs {
					for path := range paths {
						routes = append(routes, Route{
							Category: category,
							Version:  version,
							Access:   access,
							Method:   method,
							Path:     path,
						})
					}
				}
			}
		}
	}
	return routes
}
