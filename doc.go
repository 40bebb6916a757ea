/*
Package corspolicy provides a declarative, serializable configuration model for
[Cross-Origin Resource Sharing (CORS)] policies, along with the logic that
validates such configuration and compiles it into an immutable [Policy]
that CORS middleware evaluates per request.

Loading a policy proceeds in three stages:

  - [ParseDocument] parses each dimension of a [Document] independently
    (allowed origins, methods, and headers; exposed headers; credentials and
    max-age) and reports every shape error it finds;
  - [Validate] checks that the dimensions are consistent with one another and
    with the CORS protocol, and reports the first conflict it finds;
  - [Compile] produces the [Policy].

All fallibility is confined to loading: once compiled, a [Policy] answers
[*Policy.Origin] and [*Policy.Preflight] queries without ever failing.
Because the CORS protocol has several interacting rules that are easily
misconfigured (credentialed access combined with wildcards, in particular),
this package performs extensive validation in order to prevent you from
inadvertently producing [dysfunctional or insecure CORS policies].

Policies are never mutated; a service that reloads its configuration should
compile a new policy and publish it through a [Holder].

Package [github.com/jub0bs/corspolicy/loader] reads documents from JSON,
YAML, and TOML sources; package [github.com/jub0bs/corspolicy/cfgerrors]
lets you programmatically inspect configuration errors.

[Cross-Origin Resource Sharing (CORS)]: https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
[dysfunctional or insecure CORS policies]: https://jub0bs.com/posts/2023-02-08-fearless-cors/
*/
package corspolicy
