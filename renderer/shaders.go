package renderer

// displayFragSrc is the display fragment shader body. The #version line and
// feature defines (SHADING, MANUAL_FILTERING, TRANSPARENT) are prepended at
// compile time by compileDisplay.
const displayFragSrc = `
in vec2 fragTexCoord;
in vec4 fragColor;

out vec4 finalColor;

uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec2 texelSize;
uniform vec3 backColor;

#ifdef MANUAL_FILTERING
vec4 bilerp(sampler2D sam, vec2 uv, vec2 tsize) {
    vec2 st = uv / tsize - 0.5;
    vec2 iuv = floor(st);
    vec2 fuv = fract(st);

    vec4 a = texture(sam, (iuv + vec2(0.5, 0.5)) * tsize);
    vec4 b = texture(sam, (iuv + vec2(1.5, 0.5)) * tsize);
    vec4 c = texture(sam, (iuv + vec2(0.5, 1.5)) * tsize);
    vec4 d = texture(sam, (iuv + vec2(1.5, 1.5)) * tsize);

    return mix(mix(a, b, fuv.x), mix(c, d, fuv.x), fuv.y);
}
#endif

void main() {
#ifdef MANUAL_FILTERING
    vec3 c = bilerp(texture0, fragTexCoord, texelSize).rgb;
#else
    vec3 c = texture(texture0, fragTexCoord).rgb;
#endif

#ifdef SHADING
    vec3 lc = texture(texture0, fragTexCoord - vec2(texelSize.x, 0.0)).rgb;
    vec3 rc = texture(texture0, fragTexCoord + vec2(texelSize.x, 0.0)).rgb;
    vec3 tc = texture(texture0, fragTexCoord + vec2(0.0, texelSize.y)).rgb;
    vec3 bc = texture(texture0, fragTexCoord - vec2(0.0, texelSize.y)).rgb;

    float dx = length(rc) - length(lc);
    float dy = length(tc) - length(bc);

    vec3 n = normalize(vec3(dx, dy, length(texelSize)));
    vec3 l = vec3(0.0, 0.0, 1.0);

    float diffuse = clamp(dot(n, l) + 0.7, 0.7, 1.0);
    c *= diffuse;
#endif

#ifdef TRANSPARENT
    float a = max(c.r, max(c.g, c.b));
    finalColor = vec4(c, a);
#else
    finalColor = vec4(c + backColor, 1.0);
#endif
}
`
