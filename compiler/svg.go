package compiler

// svgElements lists the element names that only exist in the SVG namespace
// (plus the ambiguous ones SVG shares with HTML that are unlikely at a root).
// A scope whose root elements all come from this set is cloned through the
// SVG fragment helper.
var svgElements = map[string]bool{
	"animate": true, "animateMotion": true, "animateTransform": true,
	"circle": true, "clipPath": true, "color-profile": true,
	"defs": true, "desc": true, "discard": true, "ellipse": true,
	"feBlend": true, "feColorMatrix": true, "feComponentTransfer": true,
	"feComposite": true, "feConvolveMatrix": true, "feDiffuseLighting": true,
	"feDisplacementMap": true, "feDistantLight": true, "feDropShadow": true,
	"feFlood": true, "feFuncA": true, "feFuncB": true, "feFuncG": true,
	"feFuncR": true, "feGaussianBlur": true, "feImage": true, "feMerge": true,
	"feMergeNode": true, "feMorphology": true, "feOffset": true,
	"fePointLight": true, "feSpecularLighting": true, "feSpotLight": true,
	"feTile": true, "feTurbulence": true, "filter": true, "g": true,
	"hatch": true, "hatchpath": true, "image": true, "line": true,
	"linearGradient": true, "marker": true, "mask": true, "mesh": true,
	"meshgradient": true, "meshpatch": true, "meshrow": true,
	"metadata": true, "mpath": true, "path": true, "pattern": true,
	"polygon": true, "polyline": true, "radialGradient": true, "rect": true,
	"set": true, "solidcolor": true, "stop": true, "switch": true,
	"symbol": true, "text": true, "textPath": true, "tspan": true,
	"unknown": true, "use": true, "view": true,
}

// fragmentHelper names the runtime function that turns a template string
// into a cloneable fragment.
func fragmentHelper(svg bool) string {
	if svg {
		return "$runtime.svgToFragment"
	}
	return "$$htmlToFragment"
}
