package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guard ifs with the same return are mergeable:
	//   if a { return err }
	//   if b { return err }
	// => if a || b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	// Nested loops are common around chunk and lesson iteration; flag
	// them so the inner body gets extracted when it grows.
	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)

	// Wrapped errors should stay inspectable with errors.Is/As.
	m.Match(`fmt.Errorf($msg, $err)`).
		Where(m["err"].Type.Implements("error") && !m["msg"].Text.Matches(`%w`)).
		Report(`error formatted with %v loses the cause; use %w so callers can unwrap`)
}
