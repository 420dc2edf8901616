// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package codec

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// Var names a counter shared between records
// during one session. Packages that define record
// families declare their own Vars.
type Var string

// Category names a family of sub-records
// with its own decoder registry.
type Category string

// TagCategory is the category of top-level tags.
const TagCategory Category = "tag"

// Context is the coding state of one encode or
// decode session. It holds named counters that
// records use to pass sizing information to their
// siblings, the decoder registries, the session
// configuration, a logger and optional metrics.
//
// A Context is passed by reference to every record
// in the session. It must not be shared between
// concurrent sessions, and its counters must be
// reset (see Reset) before it is reused.
type Context struct {
	vars    map[Var]int
	tags    *Registry[TagDecoder]
	records map[Category]*Registry[Decoder]
	config  Config
	logger  *zap.Logger
	metrics *Metrics
	session uuid.UUID
}

// Option is an optional argument to NewContext.
type Option func(c *Context)

// WithConfig sets the session configuration.
func WithConfig(cfg Config) Option {
	return func(c *Context) {
		c.config = cfg
	}
}

// WithStrict selects strict decoding: records
// without a registered decoder produce an
// *UnsupportedKindError instead of being
// captured as opaque records.
func WithStrict(strict bool) Option {
	return func(c *Context) {
		c.config.Strict = strict
	}
}

// WithLogger sets the logger used by the session.
// By default nothing is logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the collector updated by
// the session. By default nothing is counted.
func WithMetrics(m *Metrics) Option {
	return func(c *Context) {
		c.metrics = m
	}
}

// WithTags sets the registry of tag decoders.
func WithTags(r *Registry[TagDecoder]) Option {
	return func(c *Context) {
		c.tags = r
	}
}

// WithRegistry sets the registry used to
// decode sub-records of the given category.
func WithRegistry(cat Category, r *Registry[Decoder]) Option {
	return func(c *Context) {
		c.SetRegistry(cat, r)
	}
}

// NewContext returns a Context for a new session.
func NewContext(opts ...Option) *Context {
	c := &Context{
		vars:    make(map[Var]int),
		records: make(map[Category]*Registry[Decoder]),
		logger:  zap.NewNop(),
		session: uuid.New(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.tags == nil {
		c.tags = NewRegistry[TagDecoder]()
	}
	return c
}

// Get returns the value of v, or zero if v is unset.
func (c *Context) Get(v Var) int { return c.vars[v] }

// Lookup returns the value of v and
// whether it has been set in this session.
func (c *Context) Lookup(v Var) (int, bool) {
	n, ok := c.vars[v]
	return n, ok
}

// Set sets the value of v.
func (c *Context) Set(v Var, n int) {
	if c.vars == nil {
		c.vars = make(map[Var]int)
	}
	c.vars[v] = n
}

// Add adds n to v and returns the new value.
func (c *Context) Add(v Var, n int) int {
	c.Set(v, c.vars[v]+n)
	return c.vars[v]
}

// Delete unsets v.
func (c *Context) Delete(v Var) { delete(c.vars, v) }

// Vars returns a snapshot of the counters.
func (c *Context) Vars() map[Var]int { return maps.Clone(c.vars) }

// Reset clears every counter and assigns a new
// session identifier so that the Context can start
// a new session. Registries, configuration, logger
// and metrics are kept.
func (c *Context) Reset() {
	c.clearVars()
	c.session = uuid.New()
}

func (c *Context) clearVars() { maps.Clear(c.vars) }

// Session returns the identifier of the current
// session. It is attached to every log entry.
func (c *Context) Session() uuid.UUID { return c.session }

// Tags returns the tag decoder registry.
func (c *Context) Tags() *Registry[TagDecoder] { return c.tags }

// Registry returns the decoder registry for cat,
// or nil if none has been set.
func (c *Context) Registry(cat Category) *Registry[Decoder] {
	return c.records[cat]
}

// SetRegistry sets (or, if r is nil, removes)
// the decoder registry for cat.
func (c *Context) SetRegistry(cat Category, r *Registry[Decoder]) {
	if c.records == nil {
		c.records = make(map[Category]*Registry[Decoder])
	}
	if r == nil {
		delete(c.records, cat)
		return
	}
	c.records[cat] = r
}

// Config returns the session configuration.
func (c *Context) Config() Config { return c.config }

// Strict returns true if unknown records are rejected.
func (c *Context) Strict() bool { return c.config.Strict }

// Logger returns the session logger.
func (c *Context) Logger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c *Context) framing(err *FramingError) error {
	c.metrics.framing()
	c.Logger().Debug("framing mismatch",
		zap.Stringer("session", c.session),
		zap.String("record", err.Record),
		zap.Int("start", err.Start),
		zap.Int("length", err.Length),
		zap.Int("delta", err.Delta))
	return err
}

func (c *Context) unsupported(cat Category, code, pos int) error {
	c.metrics.rejected(cat)
	c.Logger().Warn("rejecting unregistered record",
		zap.Stringer("session", c.session),
		zap.String("category", string(cat)),
		zap.Int("code", code),
		zap.Int("offset", pos))
	return &UnsupportedKindError{Category: cat, Code: code, Pos: pos}
}

func (c *Context) fallback(code, pos int, err error) {
	c.Logger().Debug("decoder failed, keeping tag verbatim",
		zap.Stringer("session", c.session),
		zap.Int("code", code),
		zap.Int("offset", pos),
		zap.Error(err))
}

func (c *Context) opaque(cat Category, code, pos, length int, digest uint64) {
	c.metrics.opaque(cat)
	fields := []zap.Field{
		zap.Stringer("session", c.session),
		zap.String("category", string(cat)),
		zap.Int("code", code),
		zap.Int("offset", pos),
		zap.Int("length", length),
		zap.Uint64("digest", digest),
	}
	if c.config.LogUnknown {
		c.Logger().Info("captured unregistered record as opaque", fields...)
		return
	}
	c.Logger().Debug("captured unregistered record as opaque", fields...)
}
