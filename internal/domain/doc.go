// Package domain models seismic-event records and the tsunami-risk
// derivations computed from them.
//
// # Data Source
//
// Events originate from the USGS Earthquake Hazards Program fdsnws query
// endpoint (https://earthquake.usgs.gov/fdsnws/event/1/), or from manual
// operator input on the prediction endpoint. The USGS GeoJSON geometry
// encodes coordinates as [longitude, latitude, depth_km].
//
// # Field Defaults
//
// Magnitude, depth, latitude, and longitude are mandatory; an event missing
// any of them is rejected by [RawEvent.Validate] before feature derivation.
// The remaining instrumentation fields are frequently absent from catalog
// responses (MMI and CDI in particular are only computed for felt events)
// and are substituted from a single defaults table at ingestion:
//
//	significance  → 1000
//	mmi           → 5.0
//	cdi           → 5.0
//	station_count → 50
//	min_distance  → 1.0
//	azimuthal_gap → 100.0
//
// Substitution happens exactly once, in the adapter that builds the
// [RawEvent]; downstream code never re-checks for missing values.
//
// # Feature Derivation
//
// [FeatureEngineer.Derive] produces the fixed, ordered feature vector the
// pretrained classifier expects:
//
//	ocean_proximity  1 iff the epicenter falls inside one of three risk
//	                 basins (Pacific Ring, Indian Ocean, Caribbean), see
//	                 [OceanProximity].
//	mag_depth_ratio  magnitude / (depth_km + 1); shallow strong quakes score
//	                 high, deep ones low. The +1 keeps the divisor ≥ 1.
//	intensity_score  magnitude·0.5 + mmi·0.3 + significance/100·0.2
//	shallow_strong   1 iff depth_km < 70 and magnitude > 7.5 (strict)
//	Year, Month      taken from the event timestamp (UTC)
//
// The set of feature names the engineer can produce is validated against
// the model artifact schema at construction time; a schema feature the
// engineer cannot produce is a configuration error, not a per-event fault.
//
// # Risk Tiers
//
// Two tiering policies coexist because they serve different callers:
// [InteractiveTiers] (3 tiers, used by the single-prediction endpoint, paired
// with qualitative [RiskFactors]) and [MonitoringTiers] (5 tiers, used by the
// polling feed). Both are pure threshold maps over [0,1] with `< bound`
// semantics: a probability exactly at a boundary resolves to the higher tier.
package domain
