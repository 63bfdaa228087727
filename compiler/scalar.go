package compiler

import (
	"strconv"

	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

// formatTypes maps "format" values to types. Formats mapped to "" keep the
// base type.
var formatTypes = map[string]string{
	"date-time":    "java.util.Date",
	"uri":          "java.net.URI",
	"uuid":         "java.util.UUID",
	"regex":        "java.util.regex.Pattern",
	"utc-millisec": "long",
	"date":         "",
	"time":         "",
	"email":        "",
	"hostname":     "",
	"host-name":    "",
	"ipv4":         "",
	"ip-address":   "",
	"ipv6":         "",
	"phone":        "",
	"color":        "",
	"style":        "",
}

// compileScalar maps string, integer, number, boolean, null and untyped
// schemas. "existingJavaType" and "javaType" name the type directly.
func (c *Compiler) compileScalar(n *schema.Node) (model.Type, error) {
	for _, key := range []string{"existingJavaType", "javaType"} {
		if v := n.Get(key); v.IsString() && v.Text() != "" {
			return c.catalog.Lookup(v.Text()), nil
		}
	}
	var base model.Type
	switch tn := typeName(n); tn {
	case "string":
		base = c.catalog.Lookup("java.lang.String")
	case "integer":
		base = c.integerType(n)
	case "number":
		base = c.numberType()
	case "boolean":
		base = model.Primitive{Of: model.Boolean}
	case "any", "null":
		return c.catalog.Lookup("java.lang.Object"), nil
	default:
		c.diag.warnf("%s: unknown type %q, using java.lang.Object", n.Location(), tn)
		return c.catalog.Lookup("java.lang.Object"), nil
	}
	f := n.Get("format")
	if !f.IsString() {
		return base, nil
	}
	mapped, known := formatTypes[f.Text()]
	switch {
	case !known:
		c.diag.warnf("%s: unknown format %q ignored", f.Location(), f.Text())
		return base, nil
	case mapped == "":
		return base, nil
	}
	return c.catalog.Lookup(mapped), nil
}

func (c *Compiler) integerType(n *schema.Node) model.Type {
	switch {
	case c.cfg.UseBigIntegers:
		return c.catalog.Lookup("java.math.BigInteger")
	case c.cfg.UseLongIntegers, beyondInt32(n.Get("minimum")), beyondInt32(n.Get("maximum")):
		return model.Primitive{Of: model.Long}
	}
	return model.Primitive{Of: model.Int}
}

func (c *Compiler) numberType() model.Type {
	switch {
	case c.cfg.UseBigDecimals:
		return c.catalog.Lookup("java.math.BigDecimal")
	case c.cfg.UseDoubleNumbers:
		return model.Primitive{Of: model.Double}
	}
	return model.Primitive{Of: model.Float}
}

// beyondInt32 reports an integral bound that only fits a 64-bit integer.
func beyondInt32(bound *schema.Node) bool {
	if !bound.IsIntegral() {
		return false
	}
	_, err := strconv.ParseInt(bound.Text(), 10, 32)
	return err != nil
}
