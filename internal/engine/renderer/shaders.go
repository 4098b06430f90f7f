package renderer

// Trails are unit boxes scaled to size x size x length and offset per
// instance. They are unlit, like a basic material.
const trailVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aOffset;
layout (location = 2) in float aLength;
layout (location = 3) in float aOpacity;

uniform mat4 uView;
uniform mat4 uProjection;
uniform float uSize;

out float vOpacity;

void main() {
    vec3 scaled = aPos * vec3(uSize, uSize, aLength);
    gl_Position = uProjection * uView * vec4(aOffset + scaled, 1.0);
    vOpacity = aOpacity;
}
`

const trailFragmentShader = `
#version 410 core

in float vOpacity;

uniform vec3 uColour;

out vec4 FragColor;

void main() {
    FragColor = vec4(uColour, vOpacity);
}
`

// The model is lit by a single ambient light.
const modelVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

void main() {
    gl_Position = uProjection * uView * uModel * vec4(aPos, 1.0);
}
`

const modelFragmentShader = `
#version 410 core

uniform vec4 uBaseColour;
uniform vec3 uAmbient;

out vec4 FragColor;

void main() {
    FragColor = vec4(uBaseColour.rgb * uAmbient, uBaseColour.a);
}
`
