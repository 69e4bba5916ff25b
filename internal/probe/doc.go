// Package probe implements the end-to-end functional probe.
//
// The probe distinguishes "service process is up" from "service is fully
// functional": it dials the freshly provisioned SOCKS5 endpoint, completes
// the greeting with user/pass authentication using the first configured
// credential, and issues a CONNECT to a known test endpoint. Only a
// completed CONNECT counts as success.
//
// The caller treats a probe failure as a soft warning (ProxyTest=failed),
// never a fatal error: the test endpoint may be unreachable for reasons
// outside the provisioned host's control, such as egress policy.
package probe
