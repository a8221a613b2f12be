// Package metrics defines the custom Prometheus metrics of the CRM API.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// AuthzDecisionsTotal counts authorization decisions.
// Labels:
//   - operation: the requested operation (e.g. "user:create")
//   - decision: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by operation and outcome.",
	},
	[]string{"operation", "decision"},
)

// UserCacheTotal counts user projection cache lookups.
// Labels:
//   - cache: "usersByLogin" or "usersByEmail"
//   - result: "hit" or "miss"
var UserCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_total",
		Help:      "Total number of user cache lookups, by cache and result.",
	},
	[]string{"cache", "result"},
)

// UserCacheEvictionsTotal counts explicit cache evictions tied to user
// mutations.
var UserCacheEvictionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_evictions_total",
		Help:      "Total number of user cache evictions, by cache.",
	},
	[]string{"cache"},
)

// UsersProvisionedTotal counts users created just-in-time from a first
// successful authentication.
var UsersProvisionedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_provisioned_total",
		Help:      "Total number of users provisioned from authentication tokens.",
	},
)

// ImageUploadsTotal counts customer image uploads.
// Label:
//   - result: "ok" or "error"
var ImageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of customer profile image uploads, by result.",
	},
	[]string{"result"},
)
