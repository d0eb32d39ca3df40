// Package shaders holds the GLSL sources of the scene renderers.
package shaders

// ChunkVertexShader transforms chunk vertices and passes normal and uv on.
const ChunkVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vNormal = mat3(uModel) * aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

// ChunkFragmentShader lights faces with one directional light and draws
// cell edges from the quad uv.
const ChunkFragmentShader = `#version 410 core
in vec3 vNormal;
in vec2 vTexCoord;

uniform vec3 uLightDir;
uniform vec3 uColor;
uniform float uAmbient;

out vec4 FragColor;

void main() {
    vec3 n = length(vNormal) > 0.0 ? normalize(vNormal) : vec3(0.0, 1.0, 0.0);
    float diffuse = max(dot(n, -normalize(uLightDir)), 0.0);
    vec2 edge = min(vTexCoord, 1.0 - vTexCoord);
    float line = min(edge.x, edge.y) < 0.03 ? 0.7 : 1.0;
    FragColor = vec4(uColor * (uAmbient + (1.0 - uAmbient) * diffuse) * line, 1.0);
}
`

// LineVertexShader draws debug lines.
const LineVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
uniform mat4 uViewProj;
void main() {
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

// LineFragmentShader fills lines with a flat colour.
const LineFragmentShader = `#version 410 core
uniform vec3 uColor;
out vec4 FragColor;
void main() {
    FragColor = vec4(uColor, 1.0);
}
`
