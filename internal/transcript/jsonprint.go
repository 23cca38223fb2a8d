package transcript

import (
	"sort"
	"strings"

	"github.com/valyala/fastjson"
)

// appendJSON pretty prints an object or array body. It writes nothing and
// returns false when data is not a JSON container.
func appendJSON(t *Text, data []byte) bool {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return false
	}
	if typ := v.Type(); typ != fastjson.TypeObject && typ != fastjson.TypeArray {
		return false
	}
	jp := jsonPrinter{out: t}
	jp.print(v, true)
	return true
}

type jsonPrinter struct {
	out         *Text
	indentation int
	arena       fastjson.Arena
}

func (p *jsonPrinter) print(v *fastjson.Value, free bool) {
	switch v.Type() {
	case fastjson.TypeObject:
		p.printObject(v.GetObject(), free)
	case fastjson.TypeArray:
		p.printArray(v.GetArray())
	case fastjson.TypeString:
		p.out.Write(string(v.MarshalTo(nil)), StyleJSONString)
	case fastjson.TypeNull:
		p.out.Write("null", StyleJSONNull)
	default:
		p.out.Write(string(v.MarshalTo(nil)), StyleJSONOther)
	}
}

func (p *jsonPrinter) printObject(o *fastjson.Object, free bool) {
	if free {
		p.indent()
	}
	p.out.Write("{", StyleJSONPunctuation)
	p.newline()

	keys := make([]string, 0, o.Len())
	o.Visit(func(key []byte, _ *fastjson.Value) {
		keys = append(keys, string(key))
	})
	sort.Strings(keys)

	for i, key := range keys {
		p.indent()
		p.out.Write("  "+p.quote(key), StyleJSONKey)
		p.out.Write(": ", StyleJSONPunctuation)
		p.indentation += 2
		p.print(o.Get(key), false)
		p.indentation -= 2
		if i < len(keys)-1 {
			p.out.Write(",", StyleJSONPunctuation)
		}
		p.newline()
	}
	p.indent()
	p.out.Write("}", StyleJSONPunctuation)
}

func (p *jsonPrinter) printArray(items []*fastjson.Value) {
	nested := false
	for _, item := range items {
		if item.Type() == fastjson.TypeObject {
			nested = true
			break
		}
	}

	if !nested {
		p.out.Write("[", StyleJSONPunctuation)
		for i, item := range items {
			p.print(item, true)
			if i < len(items)-1 {
				p.out.Write(", ", StyleJSONPunctuation)
			}
		}
		p.out.Write("]", StyleJSONPunctuation)
		return
	}

	p.out.Write("[", StyleJSONPunctuation)
	p.newline()
	p.indentation += 2
	for i, item := range items {
		p.print(item, true)
		if i < len(items)-1 {
			p.out.Write(",", StyleJSONPunctuation)
		}
		p.newline()
	}
	p.indentation -= 2
	p.indent()
	p.out.Write("]", StyleJSONPunctuation)
}

func (p *jsonPrinter) quote(s string) string {
	q := string(p.arena.NewString(s).MarshalTo(nil))
	p.arena.Reset()
	return q
}

func (p *jsonPrinter) indent() {
	if p.indentation > 0 {
		p.out.Write(strings.Repeat(" ", p.indentation), StyleJSONPunctuation)
	}
}

func (p *jsonPrinter) newline() {
	p.out.Write("\n", StylePlain)
}
