// Package domain models Korean district-level (시/군/구) statistics and the
// logic that reconciles them across mutually inconsistent government sources.
//
// # Region identity
//
// Districts are keyed by the first five digits of the 법정동 legal-dong code:
// two digits of province (시/도) plus three of district. The embedded catalog
// (regions.json) is the single source of truth for valid codes; every external
// source uses its own coding scheme or none at all, so identity is resolved
// from free-text names.
//
// Name conventions in source data:
//
//	"<province> <district>"  →  "서울특별시 종로구", sometimes contracted
//	("서울 종로구") or with the administrative suffix dropped ("충북 청주시").
//	Province labels appear as full names (충청북도), suffix-stripped forms,
//	two-character contractions (충북), and pre-2023 legacy names (강원도 for
//	강원특별자치도).
//
// Rows to discard before resolution:
//
//	Aggregate labels: 소계, 합계, 총계, 계, 전체, 전국 — subtotal rows that
//	would double-count district figures.
//	Sub-district units: labels ending 읍/면/동/리/가, or containing digits
//	(종로1가동) — finer than district granularity, intermixed by some sources.
//	Duplicated bare names: 중구 exists in six provinces; without a province
//	hint such a name is ambiguous and is never guessed at.
//
// # Field registry
//
// The registry declares 62 canonical fields across 13 categories. Each field
// carries a numeric shape (integer count, one-decimal rate, signed growth
// percentage, currency amount in 만원/억원), a plausible base range used by
// the synthesizer, and a hard domain clamp applied to every value. The ten
// industry distribution shares always sum to exactly 100, with rounding
// residue absorbed by the 기타서비스 catch-all share. The composite health
// score is a pure function of the other fields in the same record and is
// recomputed, never interpolated.
//
// # Synthesis and reproducibility
//
// Fields no real source populated are filled by a seeded generator. All
// randomness flows through an explicit LCG threaded by value — no package
// state — with per-(region, field, year) stream derivation, so output is
// bit-identical across runs with the same seed. The emitted datasets are
// checked into version control, which makes this a hard requirement.
package domain
