// Package metrics define las métricas Prometheus del servicio. Vive en un paquete propio
// para que postgres, authz y http puedan importarlo sin ciclos.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AuthzDecisions decisiones de autorización por recurso, acción y resultado (allow|deny).
	AuthzDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_authz_decisions_total",
		Help: "Decisiones de autorización por recurso, acción y resultado",
	}, []string{"resource", "action", "result"})

	// QueryDuration latencia de las consultas del repositorio genérico.
	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warehouse_repository_query_duration_seconds",
		Help:    "Latencia de consultas por tabla y operación",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"table", "op"})

	// HTTPRequestDuration latencia de las peticiones HTTP por método, ruta y status.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warehouse_http_request_duration_seconds",
		Help:    "Latencia de peticiones HTTP por método, ruta y status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// TxRetries reintentos de transacción por errores de bloqueo o serialización.
	TxRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_tx_retries_total",
		Help: "Reintentos de transacción por conflicto de bloqueo o serialización",
	})
)

// Register registra las métricas en reg (o en el registry por defecto si es nil).
// Registrar dos veces no es error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{AuthzDecisions, QueryDuration, HTTPRequestDuration, TxRetries} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// ObserveQuery mide una consulta; uso: defer metrics.ObserveQuery("stores", "find_all")().
func ObserveQuery(table, op string) func() {
	start := time.Now()
	return func() {
		QueryDuration.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
	}
}

// RecordDecision cuenta una decisión de autorización.
func RecordDecision(resource, action string, allowed bool) {
	result := "deny"
	if allowed {
		result = "allow"
	}
	AuthzDecisions.WithLabelValues(resource, action, result).Inc()
}

// ObserveHTTP registra una petición ya respondida. route es el patrón ("/api/stores/:id"), no la URL.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
