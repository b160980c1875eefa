/*
Package observability turns lifecycle hooks into Prometheus metrics and
structured log lines.

Both are plain domain.LifecycleHooks values; combine them with Merge and pass
the result to algorist.WithLifecycleHooks.
*/
package observability
