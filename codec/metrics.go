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
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opDecode = "decode"
	opEncode = "encode"
)

// Metrics holds the Prometheus collectors
// updated by sessions that use it. One Metrics
// may be shared by any number of contexts.
type Metrics struct {
	tagsTotal     *prometheus.CounterVec
	tagBytesTotal *prometheus.CounterVec
	opaqueTotal   *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	framingTotal  prometheus.Counter
}

// NewMetrics creates the collectors and
// registers them with reg. A nil reg
// registers with the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		tagsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swfcodec_tags_total",
				Help: "Total number of tags decoded or encoded",
			},
			[]string{"op", "code"},
		),
		tagBytesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swfcodec_tag_bytes_total",
				Help: "Total number of tag bytes decoded or encoded, headers included",
			},
			[]string{"op"},
		),
		opaqueTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swfcodec_opaque_records_total",
				Help: "Total number of unregistered records captured verbatim",
			},
			[]string{"category"},
		),
		rejectedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swfcodec_rejected_records_total",
				Help: "Total number of unregistered records rejected in strict mode",
			},
			[]string{"category"},
		),
		framingTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "swfcodec_framing_errors_total",
				Help: "Total number of records whose encoded length did not match the declared length",
			},
		),
	}
}

// the methods below are no-ops on a nil *Metrics

func (m *Metrics) tag(op string, h Header) {
	if m == nil {
		return
	}
	m.tagsTotal.WithLabelValues(op, strconv.Itoa(int(h.Code))).Inc()
	m.tagBytesTotal.WithLabelValues(op).Add(float64(h.Total()))
}

func (m *Metrics) opaque(cat Category) {
	if m != nil {
		m.opaqueTotal.WithLabelValues(string(cat)).Inc()
	}
}

func (m *Metrics) rejected(cat Category) {
	if m != nil {
		m.rejectedTotal.WithLabelValues(string(cat)).Inc()
	}
}

func (m *Metrics) framing() {
	if m != nil {
		m.framingTotal.Inc()
	}
}
